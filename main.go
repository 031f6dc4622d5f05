package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/druvus/bio-scripts/benchmark"
	"github.com/druvus/bio-scripts/config"
	"github.com/druvus/bio-scripts/tools/extract_string"
	"github.com/druvus/bio-scripts/tools/homopolymers"
	"github.com/druvus/bio-scripts/tools/organise_taxa"
	"github.com/druvus/bio-scripts/tools/parse_acc"
	"github.com/druvus/bio-scripts/tools/sanity_check"
)

// printCustomHelp formats a custom help menu
func printCustomHelp() {
	fmt.Println(`bio-scripts - Custom Help Menu
Usage:
  bio-scripts <tool> [options]

Tools:
  organise_taxa		Extract per-taxon FASTA files from an ICTV taxonomy table
  extract_string	Filter FASTA records by header search terms
  parse_acc		Split key: value accession lists into per-key files
  homopolymers		Count homopolymer runs in a FASTA file
  check			Run diagnostic test

Global Flags:
  -h, -help		Show this help message
  -v, -version		Show version information

Benchmarking:
  -benchmark		Must be used in association with a tool.
			Displays computational resource usage and
			pertinent operating system information
  `,
	)
	os.Exit(0)
}

func printVersion() {
	fmt.Println("bio-scripts - Version Information Menu")
	fmt.Println("Central Executable:")
	fmt.Printf("\tbio-scripts:\t\t%s\n", config.MainVersion)
	fmt.Printf("\nModular tools:\n")
	fmt.Printf("\tOrganise Taxa:\t\t%s\n", config.OrganiseTaxa)
	fmt.Printf("\tExtract String:\t\t%s\n", config.ExtractString)
	fmt.Printf("\tParse Accessions:\t%s\n", config.ParseAcc)
	fmt.Printf("\tHomopolymers:\t\t%s\n", config.Homopolymers)
	fmt.Printf("\tSanity Check:\t\t%s\n", config.SanityCheck)
	fmt.Printf("\tBenchmark:\t\t%s\n", config.Benchmark)

	fmt.Println("")

	os.Exit(0)
}

// Main controller
func main() {

	// If no arguments are given, show help
	if len(os.Args) < 2 {
		printCustomHelp()
	}

	// Scan for executable-specific help flags
	for _, arg := range os.Args[1:] {
		if len(os.Args) < 3 {
			if arg == "-h" || arg == "-help" {
				printCustomHelp()
			}
		}
	}

	// Version request
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "-version" {
			printVersion()
		}
	}

	toolName := os.Args[1]
	toolArgs := os.Args[2:]

	// Check for global -benchmark flag
	benchmarking := false
	var cleanedArgs []string
	for _, arg := range toolArgs {
		if arg == "-benchmark" {
			benchmarking = true
		} else {
			cleanedArgs = append(cleanedArgs, arg)
		}
	}

	// Tool execution wrapper
	run := func() {
		switch toolName {
		case "organise_taxa":
			organise_taxa.Run(cleanedArgs)
		case "extract_string":
			extract_string.Run(cleanedArgs)
		case "parse_acc":
			parse_acc.Run(cleanedArgs)
		case "homopolymers":
			homopolymers.Run(cleanedArgs)
		case "check":
			sanity_check.Run(cleanedArgs)
		default:
			fmt.Printf("Unknown tool: %s\n", toolName)
			os.Exit(1)
		}
	}

	if benchmarking {
		label := fmt.Sprintf("bio-scripts %s %s", toolName, strings.Join(cleanedArgs, " "))
		benchmark.Run(label, run)
	} else {
		run()
	}
}
