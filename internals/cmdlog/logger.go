package cmdlog

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/gookit/color"
)

// Logger logs pretty stuff to the console
type Logger struct {
	emojis    bool
	color     bool
	indention int
}

// helper for indention
func (l *Logger) println(a string) {
	fmt.Println(strings.Repeat(" ", l.indention) + a)
}

// printEmoji prints string e only when emojis are enabled
func (l *Logger) printEmoji(e string) {
	if l.emojis {
		fmt.Print(e + " ")
	}
}

// Headline prints a blue line
func (l *Logger) Headline(s string) {
	color.Style{color.FgCyan, color.OpBold}.Println(s)
}

// Info prints a "normal" line
func (l *Logger) Info(s string) {
	l.println(s)
}

// Log prints a gray line
func (l *Logger) Log(s string) {
	color.LightWhite.Println(s)
}

// Warn will print a warning
func (l *Logger) Warn(s string) {
	l.printEmoji("⚠️ ")
	color.Style{color.FgYellow, color.OpBold}.Println(s)
}

// Fail will print the given message and then exit 1
func (l *Logger) Fail(s string) {
	l.printEmoji("💣")
	color.Style{color.FgRed, color.OpBold}.Print("Error: ")
	color.Style{color.FgWhite, color.OpBold}.Println(s)
	os.Exit(1)
}

// New returns a new Logger
func New() *Logger {
	emojis := runtime.GOOS != "windows"
	colorToggle := true

	// disable color for CI
	if os.Getenv("CI") != "" {
		emojis = false
		colorToggle = false
		color.Disable()
	}
	return &Logger{emojis: emojis, color: colorToggle}
}

// Task logs but with progress
type Task struct {
	*Logger
	current int
	end     int
}

// NewTask returns a new Task logger
func (l *Logger) NewTask(end int) *Task {
	logger := *l
	return &Task{&logger, 0, end}
}

// Step prints progress
func (t *Task) Step(e string, s string) {
	t.current++
	emoji := ""
	if t.emojis {
		emoji = e + " "
	}
	text := color.Cyan.Sprintf("[%d / %d] %s%s", t.current, t.end, emoji, s)
	// step headlines get no indention
	fmt.Println(text)
}
