package entities

import (
	"regexp"
	"strconv"
	"strings"
)

// Task content wire format, shared with the dashboard display parser:
//
//	"<title> - Bắt đầu: <HH:MM> | Thời lượng: <duration>\nChi tiết: <detail>"
//
// The header line is omitted when neither time field is set; the "Chi tiết:"
// line is omitted when detail is empty. When no header is present, everything
// after the first " - " is plain detail text.
const (
	contentDelimiter = " - "
	startPrefix      = "Bắt đầu:"
	durationPrefix   = "Thời lượng:"
	detailPrefix     = "Chi tiết:"
)

// UnscheduledTimeValue sorts tasks without a start time after timed ones.
const UnscheduledTimeValue = 9999

var timeValuePattern = regexp.MustCompile(`(\d{1,2})[:hH](\d{2})?`)

// TaskDisplay is the decoded form of a task's content field.
type TaskDisplay struct {
	Title     string
	Note      string
	Time      string
	Duration  string
	TimeValue int // minutes since midnight, UnscheduledTimeValue if untimed
}

// ComposeTaskDescription builds the description half of a task's content from
// its structured parts. Any part may be empty; empty parts are omitted.
func ComposeTaskDescription(start, duration, detail string) string {
	var header []string
	if start != "" {
		header = append(header, startPrefix+" "+start)
	}
	if duration != "" {
		header = append(header, durationPrefix+" "+duration)
	}

	headerLine := strings.Join(header, " | ")
	if headerLine == "" {
		return detail
	}
	if detail == "" {
		return headerLine
	}
	return headerLine + "\n" + detailPrefix + " " + detail
}

// ComposeTaskContent joins a title and an (optionally empty) description with
// the " - " delimiter.
func ComposeTaskContent(title, description string) string {
	if description == "" {
		return title
	}
	return title + contentDelimiter + description
}

// ParseTaskContent decodes a task content string. It tolerates the absence of
// the header line, either header sub-field, and the detail line independently.
func ParseTaskContent(content string) TaskDisplay {
	d := TaskDisplay{Title: content, TimeValue: UnscheduledTimeValue}

	dashIndex := strings.Index(content, contentDelimiter)
	if dashIndex == -1 {
		return d
	}

	d.Title = content[:dashIndex]
	rest := content[dashIndex+len(contentDelimiter):]

	if !strings.Contains(rest, startPrefix) && !strings.Contains(rest, durationPrefix) {
		// No structured header: the remainder is plain detail text.
		d.Note = rest
		return d
	}

	lines := strings.Split(rest, "\n")
	for _, part := range strings.Split(lines[0], " | ") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, startPrefix):
			d.Time = strings.TrimSpace(strings.TrimPrefix(part, startPrefix))
		case strings.HasPrefix(part, durationPrefix):
			d.Duration = strings.TrimSpace(strings.TrimPrefix(part, durationPrefix))
		}
	}

	if len(lines) > 1 {
		remaining := strings.TrimSpace(strings.Join(lines[1:], "\n"))
		if strings.HasPrefix(remaining, detailPrefix) {
			d.Note = strings.TrimSpace(strings.TrimPrefix(remaining, detailPrefix))
		} else {
			d.Note = remaining
		}
	}

	if d.Time != "" {
		if m := timeValuePattern.FindStringSubmatch(d.Time); m != nil {
			h, _ := strconv.Atoi(m[1])
			min := 0
			if m[2] != "" {
				min, _ = strconv.Atoi(m[2])
			}
			d.TimeValue = h*60 + min
		}
	}

	return d
}
