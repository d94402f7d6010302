package cefunge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramMetadata(t *testing.T) {
	prog, err := Load("v\n@", WithWidth(4), WithHeight(3), WithFilename("down.bf"))
	require.NoError(t, err)
	assert.Equal(t, "v\n@", prog.Source())
	assert.Equal(t, "down.bf", prog.Filename())
	assert.Equal(t, 4, prog.Width())
	assert.Equal(t, 3, prog.Height())
}

func TestProgramPlayfieldIsACopy(t *testing.T) {
	prog, err := Load("@", WithWidth(2), WithHeight(1))
	require.NoError(t, err)

	field := prog.Playfield()
	require.NoError(t, field.Write(0, 0, '.'))
	assert.Equal(t, byte('@'), prog.Playfield().Read(0, 0))

	result, err := prog.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
}
