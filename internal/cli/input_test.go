package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/wordseg/pkg/dic"
	"github.com/bastiangx/wordseg/pkg/segment"
	"github.com/bastiangx/wordseg/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, input string) string {
	t.Helper()
	d := dic.NewDictionaryWithTable(dic.NewCharTable())
	d.AddWords([]string{"北京", "大学", "北京大学"})
	svc := server.NewService(d, segment.NewDictSource(d))

	var out bytes.Buffer
	h := NewInputHandler(svc, "title", true, strings.NewReader(input), &out)
	require.NoError(t, h.Start())
	return out.String()
}

func TestAnalyzeLine(t *testing.T) {
	out := runCLI(t, "北京大学\n")
	assert.Contains(t, out, "3 lexemes")
	assert.Contains(t, out, "expr: title:北京大学 (+title:北京 +title:大学)")
}

func TestCommands(t *testing.T) {
	out := runCLI(t, ":m 北京\n:x 北京\n:s\n:x 上海")
	assert.Contains(t, out, "match|prefix")
	assert.Contains(t, out, "Found 2 words under '北京'")
	assert.Contains(t, out, "words: 3")
	assert.Contains(t, out, "No words under '上海'")
}
