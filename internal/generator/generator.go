// Package generator holds what the abstractive generators share: length
// bounds per summary mode, input chunking and the stand-in used when a
// generator could not be initialized.
package generator

import (
	"context"
	"fmt"
	"strings"

	"provsum/internal/domain"
)

const DefaultChunkChars = 2000

// Lengths bounds the size of a generated summary, in model tokens.
type Lengths struct {
	Min int
	Max int
}

var modeLengths = map[domain.Mode]Lengths{
	domain.ModeTLDR:     {Min: 20, Max: 60},
	domain.ModeShort:    {Min: 40, Max: 120},
	domain.ModeExtended: {Min: 100, Max: 300},
}

// LengthsFor returns the bounds of mode.
func LengthsFor(mode domain.Mode) (Lengths, error) {
	l, ok := modeLengths[mode]
	if !ok {
		return Lengths{}, &domain.InvalidModeError{Mode: string(mode)}
	}
	return l, nil
}

// Chunks splits text into pieces of at most size runes, preferring to cut
// at whitespace. size <= 0 means DefaultChunkChars.
func Chunks(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkChars
	}
	runes := []rune(strings.TrimSpace(text))
	var out []string
	for len(runes) > 0 {
		end := min(size, len(runes))
		if end < len(runes) {
			for cut := end; cut > size/2; cut-- {
				if runes[cut] == ' ' {
					end = cut
					break
				}
			}
		}
		if piece := strings.TrimSpace(string(runes[:end])); piece != "" {
			out = append(out, piece)
		}
		runes = runes[end:]
	}
	return out
}

// ChunkFunc summarizes one chunk within the given bounds.
type ChunkFunc func(ctx context.Context, chunk string, l Lengths) (string, error)

// Run validates mode, summarizes every chunk of text with fn and joins the
// results with a single space. The first failing chunk fails the call.
func Run(ctx context.Context, text string, mode domain.Mode, chunkChars int, fn ChunkFunc) (string, error) {
	l, err := LengthsFor(mode)
	if err != nil {
		return "", err
	}
	chunks := Chunks(text, chunkChars)
	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		out, err := fn(ctx, chunk, l)
		if err != nil {
			return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if out = strings.TrimSpace(out); out != "" {
			parts = append(parts, out)
		}
	}
	if len(chunks) > 0 && len(parts) == 0 {
		return "", domain.ErrEmptyGeneration
	}
	return strings.Join(parts, " "), nil
}

// Unavailable stands in for a generator that failed to initialize. Every
// call reports the initialization failure as a *domain.UnavailableError.
type Unavailable struct {
	name  string
	cause error
}

func NewUnavailable(name string, cause error) *Unavailable {
	return &Unavailable{name: name, cause: cause}
}

func (u *Unavailable) Name() string { return u.name }

func (u *Unavailable) Generate(context.Context, string, domain.Mode) (string, error) {
	return "", &domain.UnavailableError{Generator: u.name, Cause: u.cause}
}
