package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upptimeHistory = `url: https://atelier-yo.fr
status: up
code: 200
responseTime: 123.5
lastUpdated: 2026-10-18T09:12:44.318Z
startTime: 2025-03-01T10:00:00.000Z
generator: Upptime <https://github.com/upptime/upptime>
`

func TestDecodeUpptimeHistory(t *testing.T) {
	doc := Decode(upptimeHistory)

	assert.Equal(t, Document{
		"url":          "https://atelier-yo.fr",
		"status":       "up",
		"code":         200.0,
		"responseTime": 123.5,
		"lastUpdated":  "2026-10-18T09:12:44.318Z",
		"startTime":    "2025-03-01T10:00:00.000Z",
		"generator":    "Upptime <https://github.com/upptime/upptime>",
	}, doc)
}

func TestDecodeCommentsAndBlankLinesOnly(t *testing.T) {
	doc := Decode("# generated\n\n   \n  # indented comment\r\n\r\n")
	assert.Empty(t, doc)
	assert.NotNil(t, doc)
}

func TestDecodeEmptyInput(t *testing.T) {
	assert.Empty(t, Decode(""))
}

func TestDecodeQuotedString(t *testing.T) {
	doc := Decode("status: 'up'")
	s, ok := doc.String("status")
	require.True(t, ok, "status should stay a string")
	assert.Equal(t, "up", s)

	doc = Decode(`status: "down"`)
	assert.Equal(t, "down", doc["status"])
}

func TestDecodeNumbers(t *testing.T) {
	doc := Decode("code: 200\nresponseTime: 123.5\ndelta: -4\nneg: -0.25")

	code, ok := doc.Number("code")
	require.True(t, ok)
	assert.Equal(t, 200.0, code)

	rt, ok := doc.Number("responseTime")
	require.True(t, ok)
	assert.Equal(t, 123.5, rt)

	assert.Equal(t, -4.0, doc["delta"])
	assert.Equal(t, -0.25, doc["neg"])
}

func TestDecodeNumberLikeTokensStayStrings(t *testing.T) {
	doc := Decode("a: 1.\nb: .5\nc: 1e3\nd: +1\ne: 1.2.3\nf: 0x10\ng: 12 ms")
	for _, key := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		_, isString := doc[key].(string)
		assert.True(t, isString, "key %q should stay a string, got %#v", key, doc[key])
	}
}

func TestDecodeQuotedNumberBecomesNumber(t *testing.T) {
	doc := Decode(`code: "200"` + "\n" + `ms: '15.75'`)
	assert.Equal(t, 200.0, doc["code"])
	assert.Equal(t, 15.75, doc["ms"])
}

func TestDecodeLineWithoutColonIsDropped(t *testing.T) {
	doc := Decode("justsometext\nstatus: up")
	assert.Len(t, doc, 1)
	assert.NotContains(t, doc, "justsometext")
	assert.Equal(t, "up", doc["status"])
}

func TestDecodeDuplicateKeyLastWins(t *testing.T) {
	doc := Decode("a: 1\na: 2")
	assert.Equal(t, 2.0, doc["a"])
}

func TestDecodeOnlyFirstColonSplits(t *testing.T) {
	doc := Decode(`note: "hello: world"`)
	assert.Equal(t, "hello: world", doc["note"])

	doc = Decode("lastUpdated: 2026-10-18T09:12:44Z")
	assert.Equal(t, "2026-10-18T09:12:44Z", doc["lastUpdated"])
}

func TestDecodeTrimsAroundKeyAndValue(t *testing.T) {
	doc := Decode("   status   :    up   \r\n\tcode\t:\t' 301 '\t")
	assert.Equal(t, "up", doc["status"])
	assert.Equal(t, 301.0, doc["code"])
}

func TestDecodeMismatchedQuotesKept(t *testing.T) {
	doc := Decode(`a: 'up"` + "\n" + `b: "up` + "\n" + `c: up'`)
	assert.Equal(t, `'up"`, doc["a"])
	assert.Equal(t, `"up`, doc["b"])
	assert.Equal(t, `up'`, doc["c"])
}

func TestDecodeOnlyOuterQuotePairStripped(t *testing.T) {
	doc := Decode(`a: ''quoted''` + "\n" + `b: ""` + "\n" + `c: '`)
	assert.Equal(t, "'quoted'", doc["a"])
	assert.Equal(t, "", doc["b"])
	assert.Equal(t, "", doc["c"])
}

func TestDecodeEmptyKeyAndValue(t *testing.T) {
	doc := Decode(": orphan\nempty:")
	assert.Equal(t, "orphan", doc[""])
	assert.Equal(t, "", doc["empty"])
}

func TestDecodeNoTypedBooleansOrNulls(t *testing.T) {
	doc := Decode("enabled: true\nowner: null\ntags: [a, b]\nnested: {x: 1}")
	assert.Equal(t, "true", doc["enabled"])
	assert.Equal(t, "null", doc["owner"])
	assert.Equal(t, "[a, b]", doc["tags"])
	assert.Equal(t, "{x: 1}", doc["nested"])
}

func TestDecodeIsIdempotent(t *testing.T) {
	assert.Equal(t, Decode(upptimeHistory), Decode(upptimeHistory))
}

func TestDocumentAccessors(t *testing.T) {
	doc := Decode("status: up\ncode: 200\nresponseTime: 87.25")

	_, ok := doc.Number("status")
	assert.False(t, ok)
	_, ok = doc.String("code")
	assert.False(t, ok)

	text, ok := doc.Text("code")
	require.True(t, ok)
	assert.Equal(t, "200", text)

	text, ok = doc.Text("responseTime")
	require.True(t, ok)
	assert.Equal(t, "87.25", text)

	text, ok = doc.Text("status")
	require.True(t, ok)
	assert.Equal(t, "up", text)

	_, ok = doc.Text("missing")
	assert.False(t, ok)
}

func TestDecodeConcurrentCallers(t *testing.T) {
	done := make(chan Document)
	for i := 0; i < 8; i++ {
		go func() { done <- Decode(upptimeHistory) }()
	}
	want := Decode(upptimeHistory)
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-done)
	}
}
