package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/theapemachine/qsim"
)

// basisLabel renders outcome i as |b_{n-1}…b_0⟩, qubit 0 rightmost.
func basisLabel(i, qubits int) string {
	return fmt.Sprintf("|%0*b⟩", qubits, i)
}

func renderDistribution(w io.Writer, qubits int, probs []float64, counts map[int]int) {
	table := tablewriter.NewWriter(w)

	header := []string{"outcome", "probability"}
	if counts != nil {
		header = append(header, "count")
	}
	table.SetHeader(header)

	for i, p := range probs {
		if p < 1e-12 && counts[i] == 0 {
			continue
		}
		row := []string{basisLabel(i, qubits), strconv.FormatFloat(p, 'f', 6, 64)}
		if counts != nil {
			row = append(row, strconv.Itoa(counts[i]))
		}
		table.Append(row)
	}

	table.Render()
}

func renderBranches(w io.Writer, results []qsim.BranchResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"branch", "entropy", "purity", "duration", "error"})

	for _, r := range results {
		if r.Err != nil {
			table.Append([]string{r.Name, "-", "-", r.Duration.String(), r.Err.Error()})
			continue
		}
		table.Append([]string{
			r.Name,
			strconv.FormatFloat(r.Entropy, 'f', 4, 64),
			strconv.FormatFloat(r.Register.Purity(), 'f', 4, 64),
			r.Duration.String(),
			"",
		})
	}

	table.Render()
}
