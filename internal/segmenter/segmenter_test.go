package segmenter

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPunctuationSegmenter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
		lines []int
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			input: "  \n\n\t ",
			want:  nil,
		},
		{
			name:  "single sentence without terminator",
			input: "no punctuation here",
			want:  []string{"no punctuation here"},
			lines: []int{1},
		},
		{
			name:  "mixed terminators",
			input: "First one. Second one! Third one? Fourth",
			want:  []string{"First one.", "Second one!", "Third one?", "Fourth"},
			lines: []int{1, 1, 1, 1},
		},
		{
			name:  "decimal numbers are not boundaries",
			input: "Pi is 3.14 roughly. Next.",
			want:  []string{"Pi is 3.14 roughly.", "Next."},
			lines: []int{1, 1},
		},
		{
			name:  "punctuation runs stay together",
			input: "Really?! Yes... Fine.",
			want:  []string{"Really?!", "Yes...", "Fine."},
			lines: []int{1, 1, 1},
		},
		{
			name:  "lines are boundaries",
			input: "Heading\n\nBody one. Body two.\nTail",
			want:  []string{"Heading", "Body one.", "Body two.", "Tail"},
			lines: []int{1, 3, 3, 4},
		},
	}

	seg := NewPunctuationSegmenter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := seg.Segment(tt.input)
			require.Len(t, got, len(tt.want))
			for i, s := range got {
				assert.Equal(t, tt.want[i], s.Text)
				assert.Equal(t, i, s.Position)
				assert.Equal(t, "s"+strconv.Itoa(i+1), s.ID)
				assert.Equal(t, tt.lines[i], s.Meta["line"])
			}
		})
	}
}

func TestProseSegmenterContract(t *testing.T) {
	t.Parallel()

	got := NewProseSegmenter().Segment("The meeting ran long. Everyone left tired.\nA new day began.")
	require.NotEmpty(t, got)
	for i, s := range got {
		assert.Equal(t, i, s.Position)
		assert.Equal(t, "s"+strconv.Itoa(i+1), s.ID)
		assert.NotEmpty(t, strings.TrimSpace(s.Text))
		assert.Contains(t, []int{1, 2}, s.Meta["line"])
	}
	assert.Equal(t, 2, got[len(got)-1].Meta["line"])
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "regex", "prose"} {
		s, err := New(name)
		require.NoError(t, err)
		assert.NotNil(t, s)
	}
	_, err := New("nltk")
	assert.Error(t, err)
}
