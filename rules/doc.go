// Package rules locates, parses and caches rdf:type validation rules.
//
// Rules are configured in a YAML file, rdf_type_validation.yml, holding a sequence of rule
// records.  Unless a file is configured explicitly, a Loader looks first in the host
// application's config directory and then in the config directory shipped with the engine.
// The first file found wins.
//
//	- rdf_type: http://pcdm.org/use#OriginalFile
//	  required: true
//	- rdf_type: http://pcdm.org/use#ThumbnailImage
//	  multiple: false
//
// Once loaded, rules are cached by the Loader until it is Reset or Reloaded.
package rules
