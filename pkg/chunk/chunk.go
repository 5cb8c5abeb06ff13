// Package chunk turns raw documents into bounded, overlapping text chunks,
// the unit of graph extraction and embedding. Supported document kinds form
// a closed set; anything else is rejected before pipeline work starts.
package chunk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/polok-dev98/agentpro/internal/util"
)

// Kind identifies a supported source document format.
type Kind string

const (
	// KindText is plain prose text.
	KindText Kind = "text"
	// KindCSV is tabular comma-separated text; chunking preserves rows and
	// repeats the header in every chunk.
	KindCSV Kind = "csv"
	// KindPDF is a rich document; text is extracted before chunking.
	KindPDF Kind = "pdf"
)

var (
	// ErrUnsupportedKind rejects documents of a kind outside the closed set.
	ErrUnsupportedKind = errors.New("chunk: unsupported document kind")
	// ErrEmptyDocument rejects documents with no extractable text.
	ErrEmptyDocument = errors.New("chunk: document is empty")
)

// Chunk is one bounded window of source text. ID is assigned at split time
// and is the stable key for graph provenance and vector upserts. Index is
// the chunk's position in the source document; ingestion uses it for batch
// numbering only.
type Chunk struct {
	ID      string `json:"id"`
	Index   int    `json:"index"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

const (
	defaultChunkSize = 512
	defaultOverlap   = 50
	defaultEncoding  = "cl100k_base"
)

// Splitter produces overlapping token windows. Overlap guarantees that an
// entity mention cut by a window boundary appears whole in at least one
// neighboring chunk.
type Splitter struct {
	size     int
	overlap  int
	encoding string
}

// NewSplitterParams configures a Splitter. Zero values fall back to the
// defaults (512-token windows, 50-token overlap, cl100k_base encoding).
type NewSplitterParams struct {
	Size     int
	Overlap  int
	Encoding string
}

// NewSplitter creates a Splitter. Overlap must be smaller than Size.
func NewSplitter(params NewSplitterParams) (*Splitter, error) {
	size := params.Size
	if size <= 0 {
		size = defaultChunkSize
	}
	overlap := params.Overlap
	if overlap < 0 {
		overlap = defaultOverlap
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk: overlap %d must be smaller than size %d", overlap, size)
	}
	encoding := params.Encoding
	if encoding == "" {
		encoding = defaultEncoding
	}
	return &Splitter{
		size:     size,
		overlap:  overlap,
		encoding: encoding,
	}, nil
}

// Split dispatches on the document kind and returns the ordered chunk
// sequence for the raw document bytes. Unrecognized kinds are rejected with
// ErrUnsupportedKind.
func (s *Splitter) Split(kind Kind, data []byte, source string) ([]Chunk, error) {
	switch kind {
	case KindText:
		return s.SplitText(string(data), source)
	case KindCSV:
		return s.SplitCSV(string(data), source)
	case KindPDF:
		text, err := extractPDFText(data)
		if err != nil {
			return nil, err
		}
		return s.SplitText(text, source)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}

// SplitText splits plain text into overlapping token windows.
func (s *Splitter) SplitText(text string, source string) ([]Chunk, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyDocument
	}

	enc, err := tiktoken.GetEncoding(s.encoding)
	if err != nil {
		return nil, fmt.Errorf("chunk: load encoding %s: %w", s.encoding, err)
	}

	tokens := enc.Encode(text, nil, nil)
	step := s.size - s.overlap

	var chunks []Chunk
	for start := 0; start < len(tokens); start += step {
		end := start + s.size
		if end > len(tokens) {
			end = len(tokens)
		}

		content := strings.TrimSpace(enc.Decode(tokens[start:end]))
		if content != "" {
			id, err := util.NewID()
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, Chunk{
				ID:      id,
				Index:   len(chunks),
				Content: content,
				Source:  source,
			})
		}

		if end == len(tokens) {
			break
		}
	}

	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}
	return chunks, nil
}

// SplitCSV splits tabular text row-wise. Each chunk repeats the header row
// so every window stays interpretable on its own, and rows are never cut in
// half by a token boundary.
func (s *Splitter) SplitCSV(text string, source string) ([]Chunk, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyDocument
	}

	enc, err := tiktoken.GetEncoding(s.encoding)
	if err != nil {
		return nil, fmt.Errorf("chunk: load encoding %s: %w", s.encoding, err)
	}

	rows := strings.Split(text, "\n")
	header := rows[0]
	dataRows := rows
	if len(rows) > 1 {
		dataRows = rows[1:]
	}

	headerTokens := len(enc.Encode(header, nil, nil))

	var chunks []Chunk
	var currentRows []string
	currentTokens := headerTokens

	flush := func() error {
		if len(currentRows) == 0 {
			return nil
		}
		id, err := util.NewID()
		if err != nil {
			return err
		}
		chunks = append(chunks, Chunk{
			ID:      id,
			Index:   len(chunks),
			Content: header + "\n" + strings.Join(currentRows, "\n"),
			Source:  source,
		})
		currentRows = nil
		currentTokens = headerTokens
		return nil
	}

	for _, row := range dataRows {
		if strings.TrimSpace(row) == "" {
			continue
		}
		rowTokens := len(enc.Encode(row, nil, nil)) + 1
		if currentTokens+rowTokens > s.size && len(currentRows) > 0 {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		currentRows = append(currentRows, row)
		currentTokens += rowTokens
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		// Header-only input still yields one chunk.
		id, err := util.NewID()
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, Chunk{ID: id, Index: 0, Content: header, Source: source})
	}
	return chunks, nil
}
