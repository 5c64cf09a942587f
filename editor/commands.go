package editor

import (
	"fmt"
	"strconv"
	"strings"
)

// runCommand implements the `:` command line (§4.5.3): a line typed
// through the prompt reader, dispatched here once <Enter> closes it.
func (m *Machine) runCommand(line string) Result {
	m.history.Add(historyCommand, line)
	line = strings.TrimSpace(line)
	if line == "" {
		return noAction("")
	}

	if addr, err := gotoAddrParse(line); err == nil {
		return m.gotoAddr(addr)
	}

	fields := strings.Fields(line)
	name := fields[0]
	args := fields[1:]

	switch {
	case name == "w" || name == "write":
		return m.cmdWrite(args)
	case name == "q" || name == "quit":
		return m.cmdQuit(false)
	case name == "q!":
		return m.cmdQuit(true)
	case name == "wq" || name == "x":
		if r := m.cmdWrite(args); r.Outcome == Invalid {
			return r
		}
		return m.cmdQuit(false)
	case name == "n" || name == "next":
		return m.cmdNext()
	case name == "N" || name == "prev" || name == "previous":
		return m.cmdPrev()
	case name == "e" || name == "edit":
		return m.cmdEdit(args)
	case name == "ls" || name == "files":
		return m.cmdLs()
	case strings.HasPrefix(name, "set"):
		return m.cmdSet(args)
	case strings.HasPrefix(line, "%s/") || strings.HasPrefix(line, "s/"):
		return invalid("regex substitution is not supported; this is a byte editor")
	default:
		return invalid(fmt.Sprintf("unknown command %q", name))
	}
}

func (m *Machine) cmdWrite(args []string) Result {
	if err := m.file.Save(nil); err != nil {
		return invalid(err.Error())
	}
	return success("written")
}

func (m *Machine) cmdQuit(force bool) Result {
	if !force && m.file.NeedSave() {
		return invalid("unsaved changes, use :q! to discard")
	}
	m.ring.Remove(m.file)
	if next := m.ring.Current(); next != nil {
		m.file = next
	}
	return success("")
}

func (m *Machine) cmdNext() Result {
	f := m.ring.Next()
	if f == nil {
		return noAction("no other files")
	}
	m.file = f
	m.cursor = 0
	return success("")
}

func (m *Machine) cmdPrev() Result {
	f := m.ring.Last()
	if f == nil {
		return noAction("no other files")
	}
	m.file = f
	m.cursor = 0
	return success("")
}

func (m *Machine) cmdEdit(args []string) Result {
	if len(args) != 1 {
		return invalid(":e requires exactly one path")
	}
	return invalid("opening new files is handled by the file-browser collaborator, not editor.Machine directly")
}

func (m *Machine) cmdLs() Result {
	files := m.ring.Files()
	var b strings.Builder
	for i, f := range files {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Path())
	}
	return success(b.String())
}

func (m *Machine) cmdSet(args []string) Result {
	for _, a := range args {
		name, value, found := strings.Cut(a, "=")
		if !found {
			if err := m.prefs.Set(name, true); err != nil {
				return invalid(err.Error())
			}
			continue
		}
		if n, err := strconv.Atoi(value); err == nil {
			if err := m.prefs.Set(name, n); err != nil {
				return invalid(err.Error())
			}
			continue
		}
		if err := m.prefs.Set(name, value); err != nil {
			return invalid(err.Error())
		}
	}
	return success("")
}
