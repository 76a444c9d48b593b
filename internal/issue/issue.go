// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	NoExportTargetId Id = iota + 1
	SettingRequiresFlagId
	UnbuiltPackagesId
	InvalidSpecId
	ConfigLoadFailedId
	ToolExecFailedId
	StagingFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to look up the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links shown under "See also"
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	noExportTargetIssue = &Issue{
		id: NoExportTargetId,
		mdMsg: `
# No export target specified!

The export command needs to know which artifact formats to produce.

## Pick at least one of:
~~~
--raw       keep the export as a plain directory tree
--nuget     produce a NuGet package
--ifw       produce a Qt Installer Framework installer
--zip       produce a zip archive
--7zip      produce a 7z archive
--dry-run   only print the export plan
~~~

## Example:
~~~
$ portpack export zlib:x64-linux --zip
~~~`,
	}

	settingRequiresFlagIssue = &Issue{
		id: SettingRequiresFlagId,
		mdMsg: `
# Format setting without its owning flag!

Settings like ` + "`--nuget-id`" + ` or ` + "`--ifw-repository-url`" + ` only make
sense together with the flag that selects their format.

## Things you can try:
- Add the owning format flag:
~~~
$ portpack export zlib --nuget --nuget-id my.package
~~~
- Or drop the setting if you did not mean to select that format.`,
	}

	unbuiltPackagesIssue = &Issue{
		id: UnbuiltPackagesId,
		mdMsg: `
# Some packages are not built yet!

Export only snapshots packages that are already built and installed.
The pipeline never builds anything itself.

## Things you can try:
- Build the missing packages first with the command printed above, then
  re-run the export.
- Use ` + "`--dry-run`" + ` to inspect the plan without exporting.`,
	}

	invalidSpecIssue = &Issue{
		id: InvalidSpecId,
		mdMsg: `
# Invalid package spec!

Package specs have the form ` + "`name`" + ` or ` + "`name:triplet`" + `, using
lowercase alphanumeric segments separated by dashes.

## Examples:
~~~
zlib
zlib:x64-windows
boost-system:arm64-linux
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your config.cue contains syntax errors or values that don't match the
expected schema.

## Things you can try:
- Check the error message above for the specific field
- Validate the file with the cue command-line tool
- Delete the file to fall back to built-in defaults`,
	}

	toolExecFailedIssue = &Issue{
		id: ToolExecFailedId,
		mdMsg: `
# External tool failed!

An artifact generator invokes an external tool (nuget, cmake,
binarycreator) and that tool exited with a non-zero status.

## Things you can try:
- Check the captured tool output above for the underlying cause
- Verify the tool path in your config.cue under 'tools'
- Ensure the tool is installed and on your PATH`,
	}

	stagingFailedIssue = &Issue{
		id: StagingFailedId,
		mdMsg: `
# Failed to stage the export snapshot!

The export staging directory could not be assembled.

## Things you can try:
- Check that the export root exists and is writable
- Check free disk space
- Verify the installed tree was not modified while exporting`,
	}

	issues = map[Id]*Issue{
		noExportTargetIssue.Id():      noExportTargetIssue,
		settingRequiresFlagIssue.Id(): settingRequiresFlagIssue,
		unbuiltPackagesIssue.Id():     unbuiltPackagesIssue,
		invalidSpecIssue.Id():         invalidSpecIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		toolExecFailedIssue.Id():      toolExecFailedIssue,
		stagingFailedIssue.Id():       stagingFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
