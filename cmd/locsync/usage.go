package main

import "github.com/spf13/cobra"

// Command groups shown by "locsync --help".
var commandGroups = []*cobra.Group{
	{ID: "sync", Title: "Translation:"},
	{ID: "content", Title: "Content:"},
	{ID: "provider", Title: "Provider and credentials:"},
}

const commandList = `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}  {{rpad .Name .NamePadding }} {{.Short}}
{{end}}{{end}}`

const flagSections = `{{if .HasAvailableLocalFlags}}
Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}{{if .HasAvailableInheritedFlags}}
Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}`

const moreHelp = `{{if .HasAvailableSubCommands}}
Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

// leafUsageTemplate is used by commands that do the work themselves.
const leafUsageTemplate = `Usage:
  {{.UseLine}}
{{if .HasExample}}
Examples:
{{.Example}}
{{end}}` + flagSections

// parentUsageTemplate is used by "translate" and "env", which only hold
// subcommands.
const parentUsageTemplate = `Usage:
  {{.CommandPath}} [command]

Commands:
` + commandList + flagSections + moreHelp

const rootUsageTemplate = `Usage:
  {{.CommandPath}} [command] [flags]
{{$cmds := .Commands}}{{range $group := .Groups}}
{{.Title}}
{{range $cmds}}{{if (and (eq .GroupID $group.ID) .IsAvailableCommand)}}  {{rpad .Name .NamePadding }} {{.Short}}
{{end}}{{end}}{{end}}
Other:
{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}  {{rpad .Name .NamePadding }} {{.Short}}
{{end}}{{end}}
A typical run imports content, estimates the cost, then translates:
  locsync import content.yaml
  locsync estimate --targets de,fr
  locsync translate messages --targets de,fr --report run.json
` + flagSections + moreHelp

// setGroup assigns every cmd to the help group id.
func setGroup(id string, cmds ...*cobra.Command) []*cobra.Command {
	for _, c := range cmds {
		c.GroupID = id
	}
	return cmds
}
