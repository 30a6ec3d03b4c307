package g2p

import (
	"bufio"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/g2pk/internal/jamo"
	"github.com/jusunglee/g2pk/internal/resources"
	"github.com/jusunglee/g2pk/internal/rules"
)

var (
	engineOnce sync.Once
	engine     *Engine
	engineErr  error
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	engineOnce.Do(func() {
		engine, engineErr = Load(slog.New(slog.DiscardHandler))
	})
	require.NoError(t, engineErr)
	return engine
}

const sentence = "나의 친구가 mp3 file 3개를 다운받고 있다"

func TestTranscribeSentence(t *testing.T) {
	e := testEngine(t)

	got := e.Transcribe(sentence, DefaultOptions())
	assert.Equal(t, "나의 친구가 엠피쓰리 파일 세개를 다운받꼬 읻따", got.Text)
	assert.Nil(t, got.Trace)

	opts := DefaultOptions()
	opts.Descriptive = true
	assert.Equal(t, "나에 친구가 엠피쓰리 파일 세개를 다운받꼬 읻따", e.Transcribe(sentence, opts).Text)
}

func TestTranscribe(t *testing.T) {
	e := testEngine(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"punctuation only", "?! (…)", "?! (…)"},
		{"native numerals before bound nouns", "3시 10분", "세시 십뿐"},
		{"linking", "밖에 있어", "바께 이써"},
		{"aspiration", "좋고 놓는 싫어", "조코 논는 시러"},
		{"liquidization", "신라", "실라"},
		{"stem tensing", "앉고 넓다 밟고 핥다", "안꼬 널따 밥꼬 할따"},
		{"modifier tensing", "할 것을 갈 수 없다", "할 꺼슬 갈 쑤 업따"},
		{"palatalization", "굳이 밭이 닫히다", "구지 바치 다치다"},
		{"idiom", "갈등 발전", "갈뜽 발쩐"},
		{"english words", "computer game 2개", "컴퓨터 게임 두개"},
		{"english word alone", "file", "파일"},
		{"english word starting with a vowel", "apple 2개", "애플 두개"},
		{"unknown english word", "xyzzy 3개", "xyzzy 세개"},
		{"reserved code points", "신\ufdd1라", "실라"},
		{"full width digits", "３개", "세개"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Transcribe(tt.input, DefaultOptions()).Text)
		})
	}
}

func TestTranscribeEveryDictionaryWord(t *testing.T) {
	e := testEngine(t)

	f, err := resources.FS().Open(resources.Dictionary)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word, _, ok := strings.Cut(scanner.Text(), "  ")
		if !ok || strings.HasPrefix(word, ";;;") {
			continue
		}
		assert.NotPanics(t, func() {
			e.Transcribe(word, DefaultOptions())
			e.Transcribe(word+"의 3개", Options{Descriptive: true, Verbose: true})
		}, word)
	}
	require.NoError(t, scanner.Err())
}

func TestTranscribeOptions(t *testing.T) {
	e := testEngine(t)

	phonemes := e.Transcribe("밖에 있어", Options{})
	assert.Equal(t, jamo.Decompose("바께 이써"), phonemes.Text)
	assert.Equal(t, "바께 이써", jamo.Compose(phonemes.Text))

	grouped := e.Transcribe("세개를 샀다", Options{GroupVowels: true, ToSyllable: true})
	assert.Equal(t, "세게를 삳따", grouped.Text)

	// the same text in the register it was not written for
	assert.Equal(t, "히망을 계시다", e.Transcribe("희망을 계시다", DefaultOptions()).Text)
	assert.Equal(t, "히망을 게시다", e.Transcribe("희망을 계시다", Options{Descriptive: true, ToSyllable: true}).Text)
}

func TestTranscribeVerbose(t *testing.T) {
	e := testEngine(t)

	got := e.Transcribe(sentence, Options{Verbose: true, ToSyllable: true})
	require.NotNil(t, got.Trace)
	records := got.Trace.Records

	// three stage records, then one per entry of every table allowed in the mode
	want := 3 + allowed(e.special, rules.Prescriptive) + e.main.Len() + e.link.Len()
	require.Len(t, records, want)

	assert.Equal(t, StageIdioms, records[0].Table)
	assert.Equal(t, "나의 친구가 엠피쓰리 file 3개를 다운받고 있다", records[0].After)
	assert.Equal(t, StageEnglish, records[1].Table)
	assert.Equal(t, "나의 친구가 엠피쓰리 파일/F 3개를 다운받고 있다", records[1].After)
	assert.Equal(t, StageNumerals, records[2].Table)
	assert.Equal(t, "나의/J 친구가 엠피쓰리 파일/F 3개/B를 다운받고 있다", records[2].Before)
	assert.Equal(t, "나의/J 친구가 엠피쓰리 파일/F 세개/B를 다운받고 있다", records[2].After)

	for i := 4; i < len(records); i++ {
		if records[i].Table == records[i-1].Table {
			assert.Equal(t, records[i-1].After, records[i].Before, "records feed forward at %d", i)
		}
	}
	for _, r := range records[3:] {
		assert.NotZero(t, r.Line)
		if len(r.RuleIDs) > 0 {
			assert.NotEmpty(t, r.Gloss, "gloss for %v", r.RuleIDs)
		}
	}

	changed := got.Trace.Changed()
	assert.NotEmpty(t, changed)
	assert.Less(t, len(changed), len(records))
	tables := map[string]bool{}
	for _, r := range changed {
		tables[r.Table] = true
	}
	assert.True(t, tables[resources.MainTable])
	assert.False(t, tables[resources.LinkTable], "nothing links in this sentence")
}

func TestTranscribeVerboseDescriptive(t *testing.T) {
	e := testEngine(t)

	got := e.Transcribe(sentence, Options{Verbose: true, Descriptive: true, ToSyllable: true})
	want := 3 + allowed(e.special, rules.Descriptive) + e.main.Len() + e.link.Len()
	assert.Len(t, got.Trace.Records, want)

	var possessive *rules.Record
	for _, r := range got.Trace.Changed() {
		if r.Table == resources.SpecialTable {
			possessive = &r
			break
		}
	}
	require.NotNil(t, possessive)
	assert.Equal(t, []string{"5.4.2"}, possessive.RuleIDs)
}

func TestTranscribeDeterministic(t *testing.T) {
	e := testEngine(t)
	opts := Options{Verbose: true, ToSyllable: true}

	first := e.Transcribe(sentence, opts)
	second := e.Transcribe(sentence, opts)
	assert.Equal(t, first, second)
}

func TestTranscribeConcurrent(t *testing.T) {
	e := testEngine(t)
	want := e.Transcribe(sentence, DefaultOptions()).Text

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = e.Transcribe(sentence, DefaultOptions()).Text
		}()
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestTranscribeGolden(t *testing.T) {
	e := testEngine(t)

	f, err := os.Open("testdata/sentences.txt")
	require.NoError(t, err)
	defer f.Close()

	var inputs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			inputs = append(inputs, line)
		}
	}
	require.NoError(t, scanner.Err())

	modes := []struct {
		name string
		opts Options
	}{
		{"prescriptive", DefaultOptions()},
		{"descriptive", Options{Descriptive: true, ToSyllable: true}},
		{"grouped", Options{GroupVowels: true, ToSyllable: true}},
		{"phonemes", Options{}},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, m := range modes {
		t.Run(m.name, func(t *testing.T) {
			var b strings.Builder
			for _, in := range inputs {
				fmt.Fprintf(&b, "%s\t%s\n", in, e.Transcribe(in, m.opts).Text)
			}
			g.Assert(t, m.name, []byte(b.String()))
		})
	}
}

func TestLoadFSErrors(t *testing.T) {
	base := fstest.MapFS{}
	for _, name := range resources.Files {
		b, err := fs.ReadFile(resources.FS(), name)
		require.NoError(t, err)
		base[name] = &fstest.MapFile{Data: b}
	}

	with := func(name, data string) fstest.MapFS {
		m := fstest.MapFS{}
		for k, v := range base {
			m[k] = v
		}
		m[name] = &fstest.MapFile{Data: []byte(data)}
		return m
	}

	_, err := LoadFS(base, nil)
	require.NoError(t, err)

	_, err = LoadFS(with(resources.MainTable, "x\ty\n"), nil)
	assert.ErrorIs(t, err, rules.ErrMalformedRule)
	assert.Contains(t, err.Error(), "main.tsv:1")

	_, err = LoadFS(with(resources.LinkTable, "(\tx\t13\n"), nil)
	assert.ErrorIs(t, err, rules.ErrBadPattern)

	_, err = LoadFS(with(resources.Idioms, "no separator\n"), nil)
	assert.Error(t, err)

	missing := with(resources.Cues, "")
	delete(missing, resources.Cues)
	_, err = LoadFS(missing, nil)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func allowed(t *rules.Table, mode rules.Mode) int {
	n := 0
	for _, e := range t.Entries {
		if e.Mode == rules.Any || e.Mode == mode {
			n++
		}
	}
	return n
}
