package metadata

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// ManifestFile is the name of the file describing a file set
const ManifestFile = "fileset.json"

// Digest is a lowercase hex string representing a digest of a file's content
type Digest string

// FileSet describes a logical grouping of files representing one intellectual item,
// as defined by fileset.json
type FileSet struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Files []File `json:"files"`
}

// File describes an individual file within a file set
type File struct {
	Name     string `json:"name"`
	Type     string `json:"type"` // rdf:type, e.g. http://pcdm.org/use#OriginalFile
	Digest   Digest `json:"digest,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// Parse parses a byte stream into file set metadata
func Parse(r io.Reader, fs *FileSet) error {

	err := json.NewDecoder(r).Decode(fs)
	if err != nil {
		return errors.Wrap(err, "Could not decode json file set manifest")
	}
	return nil
}

// Serialize writes the contents of the file set to json
func (fs *FileSet) Serialize(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fs)
}

// DeclaredTypes returns the rdf:type of each file, in file order.  Files that declare no
// type contribute an empty string.
func (fs *FileSet) DeclaredTypes() []string {
	types := make([]string, 0, len(fs.Files))
	for _, f := range fs.Files {
		types = append(types, f.Type)
	}
	return types
}

// FilesOfType returns the files declaring the given rdf:type
func (fs *FileSet) FilesOfType(rdfType string) []File {
	var files []File
	for _, f := range fs.Files {
		if f.Type == rdfType {
			files = append(files, f)
		}
	}
	return files
}

// PutFile adds a file to the file set, replacing any existing file of the same name
func (fs *FileSet) PutFile(f File) error {
	if f.Name == "" {
		return errors.New("file has no name")
	}

	for i := range fs.Files {
		if fs.Files[i].Name == f.Name {
			fs.Files[i] = f
			return nil
		}
	}

	fs.Files = append(fs.Files, f)
	return nil
}
