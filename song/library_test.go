package song

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/areknoster/guitarzero/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	seq, err := Parse(strings.NewReader("# warm up\n1 0 1\n\n0 1 0\n1 1 1\n0 0 0\n"), 3)
	require.NoError(t, err)
	assert.Equal(t, domain.NoteSequence{
		{true, false, true},
		{false, true, false},
		{true, true, true},
	}, seq)
}

func TestParseErrors(t *testing.T) {
	for name, tc := range map[string]struct {
		input string
		want  error
	}{
		"too few rows":   {input: "1 0 1\n0 1 0\n", want: domain.ErrShortSequence},
		"empty song":     {input: "", want: domain.ErrShortSequence},
		"too few lanes":  {input: "1 0\n1 0 1\n1 0 1\n", want: ErrMalformedRow},
		"too many lanes": {input: "1 0 1 1\n1 0 1\n1 0 1\n", want: ErrMalformedRow},
		"bad flag":       {input: "1 0 1\n1 x 1\n1 0 1\n", want: ErrMalformedRow},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input), 3)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLibraryLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}
	lib := NewLibrary(
		write("easy.song", "1 0 0\n1 0 0\n"),
		write("medium.song", "0 1 0\n0 1 0\n"),
		filepath.Join(dir, "missing.song"),
	)

	seq, err := lib.Load(domain.Easy, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.NoteSequence{{true, false, false}, {true, false, false}}, seq)

	seq, err = lib.Load(domain.Medium, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.NoteSequence{{false, true, false}}, seq)

	_, err = lib.Load(domain.Medium, 3)
	require.ErrorIs(t, err, domain.ErrShortSequence)

	_, err = lib.Load(domain.Hard, 2)
	require.Error(t, err)

	_, err = lib.Load(domain.Tier(9), 2)
	require.Error(t, err)
}
