package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rpggio/downtime/internal/domain/character"
	"github.com/rpggio/downtime/internal/sqlite"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				// newApp migrates up on open.
				a, err := newApp(cmd)
				if err != nil {
					return err
				}
				defer a.close()
				return printVersion(cmd.OutOrStdout(), a.db)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := newApp(cmd)
				if err != nil {
					return err
				}
				defer a.close()
				if err := a.db.MigrateDown(); err != nil {
					return err
				}
				return printVersion(cmd.OutOrStdout(), a.db)
			},
		},
	)
	return cmd
}

func printVersion(w io.Writer, db *sqlite.DB) error {
	version, dirty, err := db.Version()
	if err != nil {
		return err
	}
	if dirty {
		fmt.Fprintf(w, "schema version %d (dirty)\n", version)
		return nil
	}
	fmt.Fprintf(w, "schema version %d\n", version)
	return nil
}

// characterFile is the import format: one sheet and, optionally, its crew.
type characterFile struct {
	Crew  *character.Crew  `yaml:"crew"`
	Sheet *character.Sheet `yaml:"sheet"`
}

func parseCharacterFile(r io.Reader) (characterFile, error) {
	var f characterFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return characterFile{}, fmt.Errorf("decode character file: %w", err)
	}
	if f.Sheet == nil {
		return characterFile{}, errors.New("character file has no sheet")
	}
	for action := range f.Sheet.Dots {
		if _, ok := character.ParseAction(string(action)); !ok {
			return characterFile{}, fmt.Errorf("unknown action %q", action)
		}
	}
	if f.Crew != nil && f.Sheet.CrewID == "" {
		f.Sheet.CrewID = f.Crew.ID
	}
	return f, nil
}

func characterCmd() *cobra.Command {
	var userID string
	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Store a character sheet from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()
			parsed, err := parseCharacterFile(file)
			if err != nil {
				return err
			}
			if userID != "" {
				parsed.Sheet.UserID = userID
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			repo := sqlite.NewCharacterRepository(a.db)
			if parsed.Crew != nil {
				if err := repo.UpsertCrew(ctx, parsed.Crew); err != nil {
					return fmt.Errorf("store crew: %w", err)
				}
			}
			if err := repo.UpsertSheet(ctx, parsed.Sheet); err != nil {
				return fmt.Errorf("store sheet: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s for %s\n", parsed.Sheet.Name, parsed.Sheet.UserID)
			return nil
		},
	}
	importCmd.Flags().StringVar(&userID, "user", "", "user the sheet belongs to (overrides the file)")

	cmd := &cobra.Command{
		Use:   "character",
		Short: "Manage character sheets",
	}
	cmd.AddCommand(importCmd)
	return cmd
}

func keysCmd() *cobra.Command {
	var userID, token string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an API key for a user and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}
			if token == "" {
				token = uuid.NewString()
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := sqlite.NewAPIKeyRepository(a.db).Create(cmd.Context(), userID, token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	addCmd.Flags().StringVar(&userID, "user", "", "user the key authenticates as")
	addCmd.Flags().StringVar(&token, "token", "", "token to store (default: random)")

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
	}
	cmd.AddCommand(addCmd)
	return cmd
}
