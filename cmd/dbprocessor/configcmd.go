package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configView is the YAML shape of the effective configuration.
type configView struct {
	Dialect           string `yaml:"dialect"`
	Driver            string `yaml:"driver,omitempty"`
	Conn              string `yaml:"conn,omitempty"`
	Host              string `yaml:"host,omitempty"`
	Port              int    `yaml:"port,omitempty"`
	Username          string `yaml:"username,omitempty"`
	Password          string `yaml:"password,omitempty"`
	SSL               bool   `yaml:"ssl"`
	Database          string `yaml:"database,omitempty"`
	Preview           bool   `yaml:"preview"`
	Transactional     bool   `yaml:"transactional"`
	ConnectionTimeout string `yaml:"connection_timeout"`
	CommandTimeout    string `yaml:"command_timeout"`
	ScriptDir         string `yaml:"script_dir,omitempty"`
	ScriptMode        string `yaml:"script_mode"`
	Newline           string `yaml:"newline,omitempty"`
	Verbose           bool   `yaml:"verbose"`
}

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration after merging defaults, the config file,
environment variables and flags. Passwords are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.cfg.Redacted()
			if c.File != "" {
				printf(cmd, "# file: %s\n", c.File)
			}
			view := configView{
				Dialect:           c.Dialect,
				Driver:            c.Driver,
				Conn:              c.Conn,
				Host:              c.Host,
				Port:              c.Port,
				Username:          c.Username,
				Password:          c.Password,
				SSL:               c.SSL,
				Database:          c.Database,
				Preview:           c.Preview,
				Transactional:     c.Transactional,
				ConnectionTimeout: c.ConnectionTimeout.String(),
				CommandTimeout:    c.CommandTimeout.String(),
				ScriptDir:         c.ScriptDir,
				ScriptMode:        c.ScriptMode,
				Newline:           c.Newline,
				Verbose:           c.Verbose,
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(view); err != nil {
				return err
			}
			return enc.Close()
		},
	})
	return cmd
}
