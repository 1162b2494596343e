package target

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir,
		"src/pages/index.astro",
		"src/pages/chapters/06-generative-ai.astro",
		"src/pages/chapters/07-embeddings.astro",
		"src/pages/chapters/15-future.astro",
		"src/pages/chapters/notes.md",
		"src/components/Header.astro",
	)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src/pages/empty.astro"), 0755))

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	tests := []struct {
		name      string
		selector  Selector
		want      []string
		wantError string
	}{
		{
			name:     "recursive_glob",
			selector: Selector{Include: []string{"src/**/*.astro"}},
			want: []string{
				"src/components/Header.astro",
				"src/pages/chapters/06-generative-ai.astro",
				"src/pages/chapters/07-embeddings.astro",
				"src/pages/chapters/15-future.astro",
				"src/pages/index.astro",
			},
		},
		{
			name:     "character_class",
			selector: Selector{Include: []string{"src/pages/chapters/0[6-9]-*.astro"}},
			want: []string{
				"src/pages/chapters/06-generative-ai.astro",
				"src/pages/chapters/07-embeddings.astro",
			},
		},
		{
			name: "explicit_list_with_missing_entry",
			selector: Selector{Include: []string{
				"./src/pages/index.astro",
				"src/pages/chapters/08-rag.astro",
			}},
			want: []string{"src/pages/index.astro"},
		},
		{
			name: "exclude_and_dedupe",
			selector: Selector{
				Include: []string{"src/pages/**/*.astro", "src/pages/index.astro"},
				Exclude: []string{"**/15-*.astro"},
			},
			want: []string{
				"src/pages/chapters/06-generative-ai.astro",
				"src/pages/chapters/07-embeddings.astro",
				"src/pages/index.astro",
			},
		},
		{
			name:     "absolute_pattern",
			selector: Selector{Include: []string{filepath.Join(dir, "src", "components", "*.astro")}},
			want:     []string{"src/components/Header.astro"},
		},
		{
			name:      "no_include",
			selector:  Selector{},
			wantError: "at least one include pattern is required",
		},
		{
			name:      "invalid_pattern",
			selector:  Selector{Include: []string{"src/[a.astro"}},
			wantError: "invalid include pattern",
		},
		{
			name:      "pattern_outside_base",
			selector:  Selector{Include: []string{filepath.Join(filepath.Dir(dir), "*.astro")}},
			wantError: "outside base directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(ctx, dir, tt.selector)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveMissingBaseDir(t *testing.T) {
	_, err := Resolve(context.Background(), filepath.Join(t.TempDir(), "nope"), Selector{Include: []string{"*"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading base directory")
}

func TestSelectorMatch(t *testing.T) {
	s := Selector{Include: []string{"src/**/*.astro"}, Exclude: []string{"src/drafts/**"}}

	assert.True(t, s.Match("src/pages/index.astro"))
	assert.True(t, s.Match("./src/a.astro"))
	assert.False(t, s.Match("src/pages/index.md"))
	assert.False(t, s.Match("src/drafts/wip.astro"))
}
