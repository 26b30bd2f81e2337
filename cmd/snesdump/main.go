package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"snes816/cartridge"
	"snes816/console"
	"snes816/disasm"
	"snes816/tui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "snesdump",
		Short: "snesdump — inspect a SNES ROM's header and disassemble from a given address",
	}

	var bypassChecksum bool

	dumpCmd := &cobra.Command{
		Use:   "dump <rom.sfc>",
		Short: "Print the parsed cartridge header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cart, err := loadCartridge(args[0], bypassChecksum)
			if err != nil {
				return err
			}
			h := cart.Header
			fmt.Printf("title:        %q\n", h.Title)
			fmt.Printf("map mode:     %s\n", h.MapMode)
			fmt.Printf("rom size:     %d KiB\n", h.RomSize/1024)
			fmt.Printf("ram size:     %d KiB\n", h.RamSize/1024)
			fmt.Printf("reset vector: $%04X\n", h.Vectors[cartridge.VecRESET])
			return nil
		},
	}
	dumpCmd.Flags().BoolVar(&bypassChecksum, "bypass-checksum", false, "fall back to ExHiROM if no header checksum validates")

	var pcFlag string
	var lines int

	disasmCmd := &cobra.Command{
		Use:   "disasm <rom.sfc>",
		Short: "Disassemble a window of instructions starting at --pc (default: RESET vector)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cart, err := loadCartridge(args[0], bypassChecksum)
			if err != nil {
				return err
			}
			c := console.New(cart)
			if pcFlag != "" {
				pc, err := strconv.ParseUint(pcFlag, 16, 32)
				if err != nil {
					return fmt.Errorf("invalid --pc %q: %w", pcFlag, err)
				}
				c.CPU.K = byte(pc >> 16)
				c.CPU.PC = uint16(pc)
			}

			ctx, err := disasm.Disassemble(c, lines)
			if err != nil {
				return err
			}
			for _, line := range ctx.Lines {
				fmt.Println(line.Decoded.Text())
			}
			return nil
		},
	}
	disasmCmd.Flags().BoolVar(&bypassChecksum, "bypass-checksum", false, "fall back to ExHiROM if no header checksum validates")
	disasmCmd.Flags().StringVar(&pcFlag, "pc", "", "starting address in hex, e.g. 8000 or 80FFFC")
	disasmCmd.Flags().IntVar(&lines, "lines", 20, "number of instructions to disassemble")

	viewCmd := &cobra.Command{
		Use:   "view <rom.sfc>",
		Short: "Open an interactive disassembly viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cart, err := loadCartridge(args[0], bypassChecksum)
			if err != nil {
				return err
			}
			return tui.Run(console.New(cart))
		},
	}
	viewCmd.Flags().BoolVar(&bypassChecksum, "bypass-checksum", false, "fall back to ExHiROM if no header checksum validates")

	rootCmd.AddCommand(dumpCmd, disasmCmd, viewCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "snesdump:", err)
		os.Exit(1)
	}
}

func loadCartridge(path string, bypassChecksum bool) (*cartridge.Cartridge, error) {
	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return cartridge.Load(rom, bypassChecksum)
}
