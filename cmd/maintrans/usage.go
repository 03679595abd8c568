package main

// Usage templates share one body; commands with subcommands also list the
// "<path> [command]" form.
const usageBody = `
{{if .HasExample}}Examples:
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}  {{rpad .Name .NamePadding }} {{.Short}}
{{end}}{{end}}
{{end}}{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

const (
	subcommandUsageTemplate = "Usage:\n  {{.UseLine}}\n" + usageBody
	groupUsageTemplate      = "Usage:\n  {{.UseLine}}\n  {{.CommandPath}} [command]\n" + usageBody
	rootUsageTemplate       = groupUsageTemplate
)
