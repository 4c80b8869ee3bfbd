package main

import (
	"fmt"
	"strings"
	"time"

	"listening-notes-be/internal/entity"

	"github.com/fatih/color"
)

var (
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

func success(msg string) string { return green("✓ ") + msg }

func failure(msg string) string { return red("✗ ") + msg }

func levelLabel(l entity.Level) string {
	switch l {
	case entity.LevelGlobal:
		return color.RedString(l.String())
	case entity.LevelFocused:
		return color.CyanString(l.String())
	default:
		return faint(l.String())
	}
}

func formatNote(n entity.NoteWithId) string {
	var sb strings.Builder

	star := " "
	if n.Important {
		star = yellow("★")
	}
	sb.WriteString(fmt.Sprintf("%s %s  %s  %s\n", star, faint(n.Id), bold(n.Title), levelLabel(n.Level)))
	if n.Description != "" {
		sb.WriteString(fmt.Sprintf("    %s\n", n.Description))
	}
	sb.WriteString(fmt.Sprintf("    %s\n", faint(time.UnixMilli(n.Date).Format("2006-01-02 15:04"))))

	for _, s := range n.SubNotes {
		mark := "-"
		if s.Important {
			mark = yellow("★")
		}
		sb.WriteString(fmt.Sprintf("      %s %s  %s\n", mark, s.Title, levelLabel(s.Level)))
	}
	return sb.String()
}
