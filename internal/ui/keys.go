package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "ctrl+c":
		return true
	}
	return false
}

func helpText() string {
	return "space play  x stop  ←/→ seek  . snap  +/- zoom  h/l scroll  f follow  " +
		"c click  9/0 click vol  ↑/↓ vol  t tap  b bpm  o offset  n/p section  e/E export  q quit"
}
