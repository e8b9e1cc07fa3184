package rules_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/birkland/rdftype"
	"github.com/birkland/rdftype/rules"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const imageRules = `
- rdf_type: image
  required: true
- rdf_type: thumbnail
  multiple: true
`

const textRules = `
- rdf_type: text
`

// writeConfig writes a rules file under root/config, returning its path
func writeConfig(t *testing.T, root, content string) string {
	t.Helper()
	dir := filepath.Join(root, rules.ConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, rules.ConfigFile)
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultResolutionOrder(t *testing.T) {
	appRoot := t.TempDir()
	engineRoot := t.TempDir()

	enginePath := writeConfig(t, engineRoot, textRules)

	l := rules.NewLoader(rules.WithAppRoot(appRoot), rules.WithEngineRoot(engineRoot), rules.WithLogger(zaptest.NewLogger(t)))

	// Only the engine default exists
	src, err := l.Source()
	require.NoError(t, err)
	assert.Equal(t, enginePath, src)

	// An application override takes precedence
	appPath := writeConfig(t, appRoot, imageRules)
	src, err = l.Source()
	require.NoError(t, err)
	assert.Equal(t, appPath, src)

	rs, err := l.Rules()
	require.NoError(t, err)
	assert.Equal(t, 2, rs.Len())
	assert.Equal(t, appPath, l.LoadedFrom())
}

func TestNoConfigFound(t *testing.T) {
	l := rules.NewLoader(rules.WithAppRoot(t.TempDir()), rules.WithEngineRoot(t.TempDir()))

	_, err := l.Source()
	assert.Equal(t, rdftype.ErrConfigNotFound, errors.Cause(err))

	_, err = l.Rules()
	assert.Equal(t, rdftype.ErrConfigNotFound, errors.Cause(err))

	_, err = rules.NewLoader().Rules()
	assert.Equal(t, rdftype.ErrConfigNotFound, errors.Cause(err))
}

func TestBundledDefault(t *testing.T) {
	appRoot := t.TempDir()
	l := rules.NewLoader(rules.WithAppRoot(appRoot), rules.WithEngineRoot(t.TempDir()), rules.WithBundledDefault())

	src, err := l.Source()
	require.NoError(t, err)
	assert.Equal(t, rules.BundledSource, src)

	rs, err := l.Rules()
	require.NoError(t, err)
	_, ok := rs.Lookup("http://pcdm.org/use#OriginalFile")
	assert.True(t, ok)
	assert.Equal(t, rules.BundledSource, l.LoadedFrom())

	// Rules on disk still win
	appPath := writeConfig(t, appRoot, textRules)
	rs, err = l.Reload()
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())
	assert.Equal(t, appPath, l.LoadedFrom())

	// An explicitly configured file never falls back
	configured := writeConfig(t, t.TempDir(), textRules)
	require.NoError(t, l.Configure(configured))
	require.NoError(t, os.Remove(configured))
	_, err = l.Reload()
	assert.Equal(t, rdftype.ErrConfigNotFound, errors.Cause(err))
	assert.Equal(t, []string{configured}, l.Candidates())
}

func TestRulesAreCached(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, imageRules)

	l := rules.NewLoader(rules.WithAppRoot(root))

	first, err := l.Rules()
	require.NoError(t, err)

	// Changing, or even removing, the file has no effect on cached rules
	require.NoError(t, os.Remove(path))

	second, err := l.Rules()
	require.NoError(t, err)
	assert.True(t, first == second, "expected the cached rule set")

	l.Reset()
	_, err = l.Rules()
	assert.Equal(t, rdftype.ErrConfigNotFound, errors.Cause(err))
}

func TestConfigure(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, imageRules)
	other := filepath.Join(t.TempDir(), "other.yml")
	require.NoError(t, ioutil.WriteFile(other, []byte(textRules), 0644))

	l := rules.NewLoader(rules.WithAppRoot(root))
	cached, err := l.Rules()
	require.NoError(t, err)

	require.NoError(t, l.Configure(other))

	src, err := l.Source()
	require.NoError(t, err)
	assert.Equal(t, other, src)

	// Configure does not reload
	rs, err := l.Rules()
	require.NoError(t, err)
	assert.True(t, cached == rs)

	rs, err = l.Reload()
	require.NoError(t, err)
	_, ok := rs.Lookup("text")
	assert.True(t, ok)
}

func TestConfigureMissingPath(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, imageRules)

	l := rules.NewLoader()
	require.NoError(t, l.Configure(path))
	cached, err := l.Rules()
	require.NoError(t, err)

	for _, bad := range []string{"", filepath.Join(root, "DOES_NOT_EXIST"), root} {
		err := l.Configure(bad)
		assert.Equal(t, rdftype.ErrConfigNotFound, errors.Cause(err), "configuring %q", bad)
	}

	// Neither the source nor the cache changed
	src, err := l.Source()
	require.NoError(t, err)
	assert.Equal(t, path, src)

	rs, err := l.Rules()
	require.NoError(t, err)
	assert.True(t, cached == rs)
}

func TestReloadFailureKeepsCache(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, imageRules)

	l := rules.NewLoader(rules.WithAppRoot(root))
	cached, err := l.Rules()
	require.NoError(t, err)

	require.NoError(t, ioutil.WriteFile(path, []byte("- rdf_type: [broken"), 0644))

	_, err = l.Reload()
	assert.Equal(t, rdftype.ErrConfigParse, errors.Cause(err))

	rs, err := l.Rules()
	require.NoError(t, err)
	assert.True(t, cached == rs)
}

func TestParseErrorIsNotCached(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "not: a list")

	l := rules.NewLoader(rules.WithAppRoot(root))
	_, err := l.Rules()
	assert.Equal(t, rdftype.ErrConfigParse, errors.Cause(err))

	require.NoError(t, ioutil.WriteFile(path, []byte(imageRules), 0644))
	rs, err := l.Rules()
	require.NoError(t, err)
	assert.Equal(t, 2, rs.Len())
}

func TestConcurrentFirstLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, imageRules)

	l := rules.NewLoader(rules.WithAppRoot(root))

	const n = 20
	results := make([]*rdftype.RuleSet, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rs, err := l.Rules()
			assert.NoError(t, err)
			results[i] = rs
		}(i)
	}
	wg.Wait()

	for _, rs := range results {
		assert.True(t, results[0] == rs, "every caller should see the same rule set")
	}
}

func TestLoaderAsValidatorSource(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, imageRules)

	v := rdftype.NewValidator(rules.NewLoader(rules.WithAppRoot(root)))

	err := v.Validate(fileSet{"thumbnail", "thumbnail"})
	assert.Equal(t, rdftype.ErrMissingRequiredType, errors.Cause(err))

	err = rdftype.NewValidator(rules.NewLoader()).Validate(fileSet{"image"})
	assert.Equal(t, rdftype.ErrConfigNotFound, errors.Cause(err))
}

type fileSet []string

func (f fileSet) DeclaredTypes() []string {
	return f
}
