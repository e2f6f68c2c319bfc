// Package checksum implements sequence-identity xref matching: protein
// sequences are digested and matched against UniParc accessions stored by
// their sequence checksum.
package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Digester produces the hex digest used to match a sequence. Injected at
// construction so the digest method is an explicit strategy rather than a
// mutable field.
type Digester interface {
	Digest(seq string) string
}

// MD5Digester is the default digest strategy: uppercase hex MD5, the form
// UniParc publishes.
type MD5Digester struct{}

// Digest returns the uppercase hex MD5 of the sequence.
func (MD5Digester) Digest(seq string) string {
	sum := md5.Sum([]byte(seq))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Index resolves a digest to the accessions sharing it.
type Index interface {
	ChecksumAccessions(checksum string) ([]string, error)
}

// Sequence is one input sequence to match.
type Sequence struct {
	ID  string // Caller identifier (e.g. translation stable id)
	Seq string
}

// Match links an input sequence to one matched accession.
type Match struct {
	ID        string
	Accession string
}

// Mapper matches sequences to checksum-indexed accessions.
type Mapper struct {
	index    Index
	digester Digester
	logger   *zap.Logger
}

// NewMapper creates a checksum mapper over the given index, using the MD5
// digest strategy unless overridden.
func NewMapper(index Index, opts ...Option) *Mapper {
	m := &Mapper{
		index:    index,
		digester: MD5Digester{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithDigester overrides the digest strategy.
func WithDigester(d Digester) Option {
	return func(m *Mapper) { m.digester = d }
}

// WithLogger sets the logger for progress messages.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mapper) { m.logger = l }
}

// Map digests every sequence and returns one match per (sequence,
// accession) pair found in the index. Sequences with no match are omitted.
func (m *Mapper) Map(seqs []Sequence) ([]Match, error) {
	var matches []Match
	for _, s := range seqs {
		digest := m.digester.Digest(s.Seq)
		accessions, err := m.index.ChecksumAccessions(digest)
		if err != nil {
			return nil, fmt.Errorf("lookup checksum for %s: %w", s.ID, err)
		}
		for _, acc := range accessions {
			matches = append(matches, Match{ID: s.ID, Accession: acc})
		}
	}
	m.logger.Info("checksum mapping finished",
		zap.Int("sequences", len(seqs)),
		zap.Int("matches", len(matches)))
	return matches, nil
}
