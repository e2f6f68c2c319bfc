package ensembl

import "sort"

// FeatureSource enumerates chromosomes and their genes for a species.
type FeatureSource interface {
	Chromosomes() []string
	Genes(chrom string) []*Gene
}

// FeatureSet is an in-memory FeatureSource built by a loader.
type FeatureSet struct {
	genes map[string][]*Gene
}

// NewFeatureSet creates an empty feature set.
func NewFeatureSet() *FeatureSet {
	return &FeatureSet{genes: make(map[string][]*Gene)}
}

// AddGene adds a gene to the set.
func (s *FeatureSet) AddGene(g *Gene) {
	s.genes[g.Chrom] = append(s.genes[g.Chrom], g)
}

// Chromosomes returns a sorted list of chromosomes in the set.
func (s *FeatureSet) Chromosomes() []string {
	chroms := make([]string, 0, len(s.genes))
	for chrom := range s.genes {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	return chroms
}

// Genes returns all genes on a chromosome, ordered by start.
func (s *FeatureSet) Genes(chrom string) []*Gene {
	return s.genes[chrom]
}

// GeneCount returns the total number of genes in the set.
func (s *FeatureSet) GeneCount() int {
	count := 0
	for _, genes := range s.genes {
		count += len(genes)
	}
	return count
}

// TranscriptCount returns the total number of transcripts in the set.
func (s *FeatureSet) TranscriptCount() int {
	count := 0
	for _, genes := range s.genes {
		for _, g := range genes {
			count += len(g.Transcripts)
		}
	}
	return count
}

// sortGenes orders genes and their transcripts by genomic start.
func (s *FeatureSet) sortGenes() {
	for _, genes := range s.genes {
		sort.Slice(genes, func(i, j int) bool {
			return genes[i].Start < genes[j].Start
		})
		for _, g := range genes {
			g.SortTranscripts()
		}
	}
}
