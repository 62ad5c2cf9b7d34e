package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var hashPasswordCost int

// hashPasswordCmd produces the bcrypt hash expected by the [status]
// password setting. The password is read from the terminal without echo,
// or from stdin when piped.
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Hash a password for the status listener",
	RunE: func(cmd *cobra.Command, args []string) error {
		var password []byte

		fd := int(os.Stdin.Fd())
		if term.IsTerminal(fd) {
			fmt.Fprint(os.Stderr, "Password: ")
			p, err := term.ReadPassword(fd)
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("cannot read password: %w", err)
			}
			password = p
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("cannot read password: %w", err)
			}
			password = []byte(strings.TrimRight(line, "\r\n"))
		}

		if len(password) == 0 {
			return fmt.Errorf("empty password")
		}

		hash, err := bcrypt.GenerateFromPassword(password, hashPasswordCost)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(hash))
		return err
	},
}

func init() {
	hashPasswordCmd.Flags().IntVar(&hashPasswordCost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")
	rootCmd.AddCommand(hashPasswordCmd)
}
