package main

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/theapemachine/qsim"
	"github.com/urfave/cli/v2"
)

func loadCircuit(path string) (*qsim.Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return qsim.ParseCircuit(f)
}

// runCircuitFile builds a register sized for the circuit and runs it.
func runCircuitFile(path string, qubits int) (*qsim.Register, error) {
	circuit, err := loadCircuit(path)
	if err != nil {
		return nil, err
	}

	reg, err := qsim.NewRegister(max(qubits, circuit.Qubits), config.RegisterOptions()...)
	if err != nil {
		return nil, err
	}

	if err := circuit.Run(reg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("circuit finished", "path", path, "ops", len(circuit.Ops), "qubits", reg.NumQubits())
	return reg, nil
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run a circuit file and print its outcome distribution",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "circuit", Aliases: []string{"c"}, Required: true},
			&cli.IntFlag{Name: "qubits", Usage: "register size, at least the circuit's"},
			&cli.StringFlag{Name: "basis", Value: "z"},
			&cli.IntFlag{Name: "shots", Usage: "also sample this many outcomes"},
			&cli.Uint64Flag{Name: "seed", Value: 1},
		},
		Action: func(c *cli.Context) error {
			basis, err := qsim.ParseBasis(c.String("basis"))
			if err != nil {
				return err
			}

			reg, err := runCircuitFile(c.String("circuit"), c.Int("qubits"))
			if err != nil {
				return err
			}

			probs, err := reg.Measure(basis)
			if err != nil {
				return err
			}

			var counts map[int]int
			if shots := c.Int("shots"); shots > 0 {
				seed := c.Uint64("seed")
				counts, err = reg.Shots(rand.New(rand.NewPCG(seed, seed)), shots)
				if err != nil {
					return err
				}
			}

			renderDistribution(os.Stdout, reg.NumQubits(), probs, counts)
			fmt.Fprintf(os.Stdout, "entropy: %.6f bits\n", reg.Entropy())
			return nil
		},
	}
}

func estimateCommand() *cli.Command {
	return &cli.Command{
		Name:  "estimate",
		Usage: "estimate the phase of diag(1, e^{2πiφ}) by phase estimation",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "phase", Required: true},
			&cli.IntFlag{Name: "precision", Value: 3},
		},
		Action: func(c *cli.Context) error {
			precision := c.Int("precision")

			reg, err := qsim.NewRegister(precision+1, config.RegisterOptions()...)
			if err != nil {
				return err
			}

			// |1⟩ is the eigenstate carrying the phase.
			if err := reg.Apply(qsim.PauliX(precision)); err != nil {
				return err
			}

			unitary := []complex128{1, 0, 0, cmplx.Exp(complex(0, 2*math.Pi*c.Float64("phase")))}
			estimate, err := reg.PhaseEstimation(unitary, precision)
			if err != nil {
				return err
			}

			logger.Info("phase estimated", "phase", c.Float64("phase"), "precision", precision, "estimate", estimate)
			fmt.Fprintf(os.Stdout, "%.*f\n", precision, estimate)
			return nil
		},
	}
}

func correctCommand() *cli.Command {
	return &cli.Command{
		Name:  "correct",
		Usage: "inject bit flips, then apply a code syndrome",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "qubits", Value: 2},
			&cli.StringFlag{Name: "code", Value: qsim.TwoQubitCode.Name, Usage: "two-qubit, bit-flip or phase-flip"},
			&cli.IntSliceFlag{Name: "flip", Usage: "qubits to flip before correcting"},
			&cli.StringFlag{Name: "syndrome", Required: true, Usage: "bit string such as 1010"},
		},
		Action: func(c *cli.Context) error {
			syndrome, err := parseSyndrome(c.String("syndrome"))
			if err != nil {
				return err
			}

			code, err := qsim.LookupCode(c.String("code"))
			if err != nil {
				return err
			}

			reg, err := qsim.NewRegister(c.Int("qubits"), config.RegisterOptions()...)
			if err != nil {
				return err
			}

			for _, q := range c.IntSlice("flip") {
				if err := reg.Apply(qsim.PauliX(q)); err != nil {
					return err
				}
			}

			if err := code.Apply(reg, syndrome); err != nil {
				return err
			}

			renderDistribution(os.Stdout, reg.NumQubits(), reg.Probabilities(), nil)
			return nil
		},
	}
}

func exploreCommand() *cli.Command {
	return &cli.Command{
		Name:  "explore",
		Usage: "run several circuit files in parallel from the same start state",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "circuit", Aliases: []string{"c"}, Required: true},
			&cli.IntFlag{Name: "qubits", Value: 1},
		},
		Action: func(c *cli.Context) error {
			paths := c.StringSlice("circuit")
			branches := make([]qsim.Branch, 0, len(paths))
			qubits := c.Int("qubits")

			for _, path := range paths {
				circuit, err := loadCircuit(path)
				if err != nil {
					return err
				}
				qubits = max(qubits, circuit.Qubits)
				branches = append(branches, qsim.Branch{Name: path, Circuit: circuit})
			}

			base, err := qsim.NewRegister(qubits, config.RegisterOptions()...)
			if err != nil {
				return err
			}

			explorer := qsim.NewExplorer(config)
			results, err := explorer.Explore(context.Background(), base, branches)
			if err != nil {
				return err
			}

			renderBranches(os.Stdout, results)
			logger.Info("exploration finished", "metrics", explorer.Metrics().ExportMetrics())
			return nil
		},
	}
}

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "run a circuit file and write the resulting register to disk",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "circuit", Aliases: []string{"c"}, Required: true},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true},
			&cli.IntFlag{Name: "qubits"},
		},
		Action: func(c *cli.Context) error {
			reg, err := runCircuitFile(c.String("circuit"), c.Int("qubits"))
			if err != nil {
				return err
			}

			data := qsim.EncodeSnapshot(reg)
			if err := os.WriteFile(c.String("out"), data, 0o644); err != nil {
				return err
			}

			logger.Info("snapshot written", "path", c.String("out"), "bytes", len(data))
			return nil
		},
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "print a register snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Required: true},
			&cli.BoolFlag{Name: "raw", Usage: "dump the whole decoded register"},
		},
		Action: func(c *cli.Context) error {
			data, err := os.ReadFile(c.String("in"))
			if err != nil {
				return err
			}

			reg, err := qsim.DecodeSnapshot(data, config.RegisterOptions()...)
			if err != nil {
				return err
			}

			if c.Bool("raw") {
				spew.Fdump(os.Stdout, reg.Amplitudes())
			} else {
				fmt.Fprint(os.Stdout, reg.Dump())
			}
			renderDistribution(os.Stdout, reg.NumQubits(), reg.Probabilities(), nil)
			return nil
		},
	}
}

// parseSyndrome reads a string of 0s and 1s, ignoring spaces and commas.
func parseSyndrome(s string) ([]bool, error) {
	var out []bool
	for _, r := range s {
		switch r {
		case '0':
			out = append(out, false)
		case '1':
			out = append(out, true)
		case ' ', ',':
		default:
			return nil, fmt.Errorf("syndrome %q: unexpected %q", s, r)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("syndrome %q is empty", strings.TrimSpace(s))
	}
	return out, nil
}
