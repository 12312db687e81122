package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"muscript/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect engine package files",
}

func init() {
	archiveCmd.AddCommand(archiveInfoCmd)
}

var archiveInfoCmd = &cobra.Command{
	Use:   "info <package.u>",
	Short: "Print the summary header of a package file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// #nosec G304 -- path is provided by the user
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		s, err := archive.ReadSummary(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "file version:     %d\n", s.FileVersion)
		fmt.Fprintf(out, "licensee version: %d\n", s.LicenseeVersion)
		fmt.Fprintf(out, "headers size:     %d\n", s.HeadersSize)
		fmt.Fprintf(out, "package group:    %s\n", s.PackageGroup)
		fmt.Fprintf(out, "package flags:    %#08x\n", s.PackageFlags)
		fmt.Fprintf(out, "names:            %d at %#x\n", s.NameCount, s.NameOffset)
		fmt.Fprintf(out, "exports:          %d at %#x\n", s.ExportCount, s.ExportOffset)
		fmt.Fprintf(out, "imports:          %d at %#x\n", s.ImportCount, s.ImportOffset)
		fmt.Fprintf(out, "depends offset:   %#x\n", s.DependsOffset)
		fmt.Fprintf(out, "guid:             %s\n", hex.EncodeToString(s.GUID[:]))
		fmt.Fprintf(out, "engine version:   %d\n", s.EngineVersion)
		fmt.Fprintf(out, "cooker version:   %d\n", s.CookerVersion)
		for i, gen := range s.Generations {
			fmt.Fprintf(out, "generation %d:     %d exports, %d names, %d net objects\n",
				i, gen.ExportCount, gen.NameCount, gen.NetObjectCount)
		}
		if s.Compressed() {
			fmt.Fprintf(out, "compression:      %#x, %d chunk(s)\n", s.CompressionFlags, len(s.CompressedChunks))
			for _, chunk := range s.CompressedChunks {
				fmt.Fprintf(out, "  chunk: %d -> %d bytes at %#x\n",
					chunk.UncompressedSize, chunk.CompressedSize, chunk.CompressedOffset)
			}
		} else {
			fmt.Fprintln(out, "compression:      none")
		}
		return nil
	},
}
