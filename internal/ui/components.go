package ui

import (
	"fmt"
	"strings"
)

func statusText(ended bool, source string) string {
	icon, state := "▶", "playing"
	if ended {
		icon, state = "■", "finished"
	}
	if source == "" {
		return fmt.Sprintf("%s  %s", icon, state)
	}
	return fmt.Sprintf("%s  %s  ·  %s", icon, state, source)
}

func windowTitle(title string, ended bool) string {
	if ended {
		return title + " — soundwave"
	}
	return "▶ " + title + " — soundwave"
}

func progressRatio(elapsed, total float64) float64 {
	if total <= 0 {
		return 0
	}
	r := elapsed / total
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func indent(block, prefix string) string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
