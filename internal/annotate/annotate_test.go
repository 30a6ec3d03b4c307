package annotate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/g2pk/internal/tagtext"
)

const testCues = `
bound_nouns: [개, 마리, 시, 시간, 명, 살]
particle:
  syllable: 의
  exceptions: [회의, 주의]
stems:
  simple: [신, 안, 감, 껴안]
  endings: [고, 고서, 다, 게, 지만, 던]
modifier:
  dependent_nouns: [것, 수, 데, 때]
`

func newTestAnnotator(t *testing.T) *Annotator {
	t.Helper()
	cues, err := ParseCues(strings.NewReader(testCues))
	require.NoError(t, err)
	return New(cues)
}

func TestParseCues(t *testing.T) {
	cues, err := ParseCues(strings.NewReader(testCues))
	require.NoError(t, err)
	assert.Equal(t, "의", cues.Particle.Syllable)
	assert.Len(t, cues.BoundNouns, 6)
	assert.Contains(t, cues.Stems.Endings, "지만")

	_, err = ParseCues(strings.NewReader("particle: {syllable: 의의}\n"))
	assert.Error(t, err)

	_, err = ParseCues(strings.NewReader("bound_nouns: [\n"))
	assert.Error(t, err)
}

func TestAnnotate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"classifier counter prefix", "사과 3개를 샀다", "사과 3개/B를 샀다"},
		{"longest counter wins", "2시간 동안", "2시간/B 동안"},
		{"classifier other word", "10분에 만나", "10분에/B 만나"},
		{"classifier after space", "고양이 2 마리", "고양이 2 마리/B"},
		{"classifier with commas", "1,000명", "1,000명/B"},
		{"particle", "나의 친구", "나의/J 친구"},
		{"particle exception", "회의 시간", "회의 시간"},
		{"single syllable is not a particle", "의 자", "의 자"},
		{"complex coda stem", "앉고 넓다", "앉/P고 넓/P다"},
		{"longest ending", "밟고서", "밟/P고서"},
		{"simple stem", "신고 껴안던", "신/P고 껴안/P던"},
		{"unlisted stem", "먹고", "먹고"},
		{"modifier", "할 것을", "할/E 것을"},
		{"modifier needs one space", "할  것", "할  것"},
		{"modifier needs ㄹ coda", "한 것", "한 것"},
		{"modifier needs dependent noun", "할 일", "할 일"},
	}
	a := newTestAnnotator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Annotate(tagtext.New(tt.input))
			assert.Equal(t, tt.want, got.Display())
		})
	}
}

func TestAnnotateSkipsForeignWords(t *testing.T) {
	a := newTestAnnotator(t)
	in := tagtext.New("파일의 나의").Insert(len("파일의"), tagtext.Foreign)

	got := a.Annotate(in)
	assert.Equal(t, "파일의/F 나의/J", got.Display())
}

func TestAnnotateKeepsExistingTags(t *testing.T) {
	a := newTestAnnotator(t)
	in := tagtext.New("파일 3개").Insert(len("파일"), tagtext.Foreign)

	got := a.Annotate(in)
	assert.True(t, got.Has(tagtext.Foreign))
	assert.Equal(t, "파일/F 3개/B", got.Display())
}
