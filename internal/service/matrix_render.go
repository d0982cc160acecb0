package service

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"wordpred/internal/model/bigram"
)

// RenderMatrix writes m as an aligned table: a header row of column words,
// then one row per word.
func RenderMatrix(w io.Writer, m *bigram.Matrix) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintf(tw, "\t%s\n", strings.Join(m.Cols, "\t"))
	for i, row := range m.Rows {
		cells := make([]string, len(m.Values[i]))
		for j, v := range m.Values[i] {
			cells[j] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\n", row, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// RenderBigrams writes one "next|curr count" line per bigram and a total
func RenderBigrams(w io.Writer, bigrams []bigram.ScoredBigram) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, b := range bigrams {
		fmt.Fprintf(tw, "%s\t%s\n", b.Bigram, strconv.FormatFloat(b.Count, 'f', -1, 64))
	}
	fmt.Fprintf(tw, "bigram entries:\t%d\n", len(bigrams))
	return tw.Flush()
}

// RenderPredictions writes ranked predictions, one per line
func RenderPredictions(w io.Writer, predictions []bigram.Prediction) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for i, p := range predictions {
		fmt.Fprintf(tw, "%d.\t%s\t%.5f\n", i+1, p.Word, p.Probability)
	}
	return tw.Flush()
}
