package confkit_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigsim-api/pkg/confkit"
)

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/abs/file.yaml", confkit.ResolvePath("/base", "/abs/file.yaml"), "absolute paths pass through")
	assert.Equal(t, filepath.Join("/base", "etc/llm.yaml"), confkit.ResolvePath("/base", "etc/llm.yaml"), "relative paths join the base")

	t.Setenv("CONF_DIR", "sections")
	assert.Equal(t, filepath.Join("/base", "sections/prices.yaml"),
		confkit.ResolvePath("/base", "${CONF_DIR}/prices.yaml"), "env placeholders expand before joining")
}

func TestBaseDir(t *testing.T) {
	assert.Equal(t, "/srv/app/etc", confkit.BaseDir("/srv/app/etc/sigsim.yaml"))
	assert.Equal(t, "etc", confkit.BaseDir("etc/sigsim.yaml"))
}

func TestSectionHydrate(t *testing.T) {
	t.Run("no file configured", func(t *testing.T) {
		section := &confkit.Section[int]{}
		err := section.Hydrate("/base", func(string) (*int, error) {
			t.Fatal("loader must not run when no file is configured")
			return nil, nil
		})
		require.NoError(t, err)
		assert.False(t, section.Hydrated())
	})

	t.Run("loads and records the resolved path", func(t *testing.T) {
		section := &confkit.Section[int]{File: "prices.yaml"}
		value := 42
		err := section.Hydrate("/base", func(path string) (*int, error) {
			assert.Equal(t, filepath.Join("/base", "prices.yaml"), path)
			return &value, nil
		})
		require.NoError(t, err)
		require.True(t, section.Hydrated())
		assert.Equal(t, 42, *section.Value)
		assert.Equal(t, filepath.Join("/base", "prices.yaml"), section.File)
	})

	t.Run("loader failure leaves the section unhydrated", func(t *testing.T) {
		section := &confkit.Section[int]{File: "broken.yaml"}
		boom := errors.New("bad yaml")
		err := section.Hydrate("/base", func(string) (*int, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
		assert.False(t, section.Hydrated())
	})
}

func TestProjectPath(t *testing.T) {
	root := confkit.MustProjectRoot()
	assert.True(t, filepath.IsAbs(root), "project root should be absolute")
	assert.Equal(t, filepath.Join(root, "etc/sigsim.yaml"), confkit.MustProjectPath("etc/sigsim.yaml"))
}
