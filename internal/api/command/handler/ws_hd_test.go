package commandHandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameText(t *testing.T) {
	cases := map[string]string{
		`{"command":"turn on the light"}`: "turn on the light",
		`  {"command": "Hello"}  `:        "Hello",
		`turn on the light`:               "turn on the light",
		`{"other":"x"}`:                   `{"other":"x"}`,
		`{not json`:                       `{not json`,
		``:                                ``,
	}
	for in, want := range cases {
		assert.Equal(t, want, frameText([]byte(in)), in)
	}
}
