// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	genpassLength  int
	genpassUpper   bool
	genpassLower   bool
	genpassNumbers bool
	genpassOthers  string
)

var genpassCmd = &cobra.Command{
	Use:   "genpass",
	Short: "Generate a random string using the database's CSRNG",
	Long: `Generates a random string (spec §4.10 random_string) drawn from the
requested character classes plus any extra characters in --others. At
least one class or --others character must be selected.`,
	RunE: runGenpass,
}

func init() {
	rootCmd.AddCommand(genpassCmd)
	genpassCmd.Flags().StringVar(&dbPath, "db", "", "path to the database file (default: config store path)")
	genpassCmd.Flags().IntVarP(&genpassLength, "length", "n", 20, "length of the generated string")
	genpassCmd.Flags().BoolVar(&genpassUpper, "upper", true, "include uppercase letters")
	genpassCmd.Flags().BoolVar(&genpassLower, "lower", true, "include lowercase letters")
	genpassCmd.Flags().BoolVar(&genpassNumbers, "numbers", true, "include digits")
	genpassCmd.Flags().StringVar(&genpassOthers, "others", "", "extra characters to include")
}

func runGenpass(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := db.RandomString(genpassLength, genpassUpper, genpassLower, genpassNumbers, genpassOthers)
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}
