package checksum

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ReadFASTA reads sequences from a (possibly gzipped) FASTA file. The
// sequence id is the first whitespace- or pipe-delimited token of the
// header line.
func ReadFASTA(path string) ([]Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return parseFASTA(reader)
}

func parseFASTA(reader io.Reader) ([]Sequence, error) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long sequence lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var seqs []Sequence
	var currentID string
	var currentSeq strings.Builder

	flush := func() {
		if currentID != "" && currentSeq.Len() > 0 {
			seqs = append(seqs, Sequence{ID: currentID, Seq: currentSeq.String()})
		}
		currentSeq.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			flush()
			currentID = parseHeader(line)
		} else {
			currentSeq.WriteString(strings.TrimSpace(line))
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}
	return seqs, nil
}

// parseHeader extracts the sequence id from a FASTA header line.
func parseHeader(header string) string {
	header = strings.TrimPrefix(header, ">")
	if idx := strings.IndexAny(header, " |\t"); idx != -1 {
		header = header[:idx]
	}
	return header
}
