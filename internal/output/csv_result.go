package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/scoremodel"
	"github.com/needl-go/netseek/internal/snpset"
)

// ScoreColumn names one score column of the result table and the model
// that computes it.
type ScoreColumn struct {
	Name  string
	Model scoremodel.Evaluator
}

// ResultOptions configures WriteResultCSVQuantitative/Categorical (spec
// §6's result CSV): Scores lists the columns to compute (in order);
// RankBy, if non-empty, must name one of Scores and causes the sets to
// be re-ordered best-first (per that model's Sense) with a leading RANK
// column.
type ResultOptions struct {
	Scores []ScoreColumn
	RankBy string
}

// categoryStat is the per-category breakdown attached to categorical
// result rows: the individuals of that phenotype category who carry at
// least one non-reference genotype across the set (GenotypeIDAtSNPSet !=
// 0), out of every individual in that category.
type categoryStat struct {
	count       int
	freq        float64
	individuals []int
}

func rankOrder(scores []ScoreColumn, rankBy string, sets []snpset.Set) ([]snpset.Set, error) {
	if rankBy == "" {
		return sets, nil
	}
	var rankModel scoremodel.Evaluator
	for _, s := range scores {
		if s.Name == rankBy {
			rankModel = s.Model
			break
		}
	}
	if rankModel == nil {
		return nil, fmt.Errorf("output: rank-by score %q is not among the requested score columns", rankBy)
	}

	ordered := append([]snpset.Set(nil), sets...)
	scores2 := make([]float64, len(ordered))
	for i := range ordered {
		scores2[i] = scoremodel.EvaluateCached(rankModel, &ordered[i])
	}
	idx := make([]int, len(ordered))
	for i := range idx {
		idx[i] = i
	}
	maximize := rankModel.ModelSense() == scoremodel.Maximize
	sort.SliceStable(idx, func(i, j int) bool {
		if maximize {
			return scores2[idx[i]] > scores2[idx[j]]
		}
		return scores2[idx[i]] < scores2[idx[j]]
	})
	out := make([]snpset.Set, len(ordered))
	for i, j := range idx {
		out[i] = ordered[j]
	}
	return out, nil
}

func snpNames(reg *registry.Registry, set snpset.Set) string {
	names := make([]string, 0, set.Len())
	for _, snp := range set.SNPs() {
		if name, err := reg.ByID(snp); err == nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ";")
}

func setAnnotations(reg *registry.Registry, set snpset.Set) string {
	seen := map[string]struct{}{}
	for _, snp := range set.SNPs() {
		for _, a := range reg.Annotations(snp) {
			seen[a] = struct{}{}
		}
	}
	return strings.Join(sortedStrings(seen), ";")
}

func attributeKeys(sets []snpset.Set) []string {
	seen := map[string]struct{}{}
	for _, s := range sets {
		for _, k := range s.AttributeKeys() {
			seen[k] = struct{}{}
		}
	}
	return sortedStrings(seen)
}

func writeHeader(w io.Writer, hasRank bool, rankBy string, scores []ScoreColumn, attribKeys []string, numCategories int) error {
	var cols []string
	if hasRank {
		cols = append(cols, fmt.Sprintf("RANK (%s)", rankBy))
	}
	cols = append(cols, "RS_IDS")
	for _, s := range scores {
		cols = append(cols, s.Name)
	}
	cols = append(cols, attribKeys...)
	cols = append(cols, "ANNOTATIONS")
	for k := 0; k < numCategories; k++ {
		cols = append(cols,
			fmt.Sprintf("NUM_INDIVIDUALS_%d", k),
			fmt.Sprintf("FREQ_INDIVIDUALS_%d", k),
			fmt.Sprintf("INDIVIDUALS_%d", k),
		)
	}
	_, err := fmt.Fprintln(w, strings.Join(cols, "\t"))
	return err
}

func writeRow(w io.Writer, rank int, hasRank bool, reg *registry.Registry, set *snpset.Set, scores []ScoreColumn, attribKeys []string, cats []categoryStat) error {
	var cols []string
	if hasRank {
		cols = append(cols, strconv.Itoa(rank))
	}
	cols = append(cols, snpNames(reg, *set))
	for _, s := range scores {
		cols = append(cols, strconv.FormatFloat(scoremodel.EvaluateCached(s.Model, set), 'g', -1, 64))
	}
	for _, k := range attribKeys {
		v, _ := set.Attribute(k)
		cols = append(cols, v)
	}
	cols = append(cols, setAnnotations(reg, *set))
	for _, c := range cats {
		inds := make([]string, len(c.individuals))
		for i, v := range c.individuals {
			inds[i] = strconv.Itoa(v)
		}
		cols = append(cols,
			strconv.Itoa(c.count),
			strconv.FormatFloat(c.freq, 'g', -1, 64),
			strings.Join(inds, ";"),
		)
	}
	_, err := fmt.Fprintln(w, strings.Join(cols, "\t"))
	return err
}

// WriteResultCSVQuantitative writes the tab-separated result table (spec
// §6) for a quantitative-phenotype run: no category breakdown columns.
func WriteResultCSVQuantitative(w io.Writer, reg *registry.Registry, sets []snpset.Set, opts ResultOptions) error {
	ordered, err := rankOrder(opts.Scores, opts.RankBy, sets)
	if err != nil {
		return err
	}

	attribKeys := attributeKeys(ordered)
	if err := writeHeader(w, opts.RankBy != "", opts.RankBy, opts.Scores, attribKeys, 0); err != nil {
		return err
	}
	for i := range ordered {
		if err := writeRow(w, i+1, opts.RankBy != "", reg, &ordered[i], opts.Scores, attribKeys, nil); err != nil {
			return err
		}
	}
	return nil
}

// WriteResultCSVCategorical writes the tab-separated result table (spec
// §6) for a categorical-phenotype run, appending NUM_INDIVIDUALS_k,
// FREQ_INDIVIDUALS_k, INDIVIDUALS_k per category.
func WriteResultCSVCategorical(w io.Writer, in *instance.Instance[int], reg *registry.Registry, sets []snpset.Set, opts ResultOptions) error {
	ordered, err := rankOrder(opts.Scores, opts.RankBy, sets)
	if err != nil {
		return err
	}

	numCategories := in.NumCategories()
	totalPerCategory := make([]int, numCategories)
	for ind := 0; ind < in.NumInds(); ind++ {
		totalPerCategory[in.Phenotype(instance.Ind(ind))]++
	}

	attribKeys := attributeKeys(ordered)
	if err := writeHeader(w, opts.RankBy != "", opts.RankBy, opts.Scores, attribKeys, numCategories); err != nil {
		return err
	}

	for i := range ordered {
		cats := make([]categoryStat, numCategories)
		for ind := 0; ind < in.NumInds(); ind++ {
			k := in.Phenotype(instance.Ind(ind))
			if in.GenotypeIDAtSNPSet(ordered[i].SNPs(), instance.Ind(ind)) == 0 {
				continue
			}
			cats[k].individuals = append(cats[k].individuals, ind)
		}
		for k := range cats {
			cats[k].count = len(cats[k].individuals)
			if totalPerCategory[k] > 0 {
				cats[k].freq = float64(cats[k].count) / float64(totalPerCategory[k])
			}
		}

		if err := writeRow(w, i+1, opts.RankBy != "", reg, &ordered[i], opts.Scores, attribKeys, cats); err != nil {
			return err
		}
	}
	return nil
}
