package utils

// ANSI escape sequences for log line coloring
const (
	resetColor  = "\033[0m"
	redColor    = "\033[31m"
	greenColor  = "\033[32m"
	yellowColor = "\033[33m"
	blueColor   = "\033[34m"
	cyanColor   = "\033[36m"
)

func colored(text, color string) string {
	return color + text + resetColor
}

// Info returns blue-colored text for informational messages
func Info(text string) string {
	return colored(text, blueColor)
}

// Success returns green-colored text for success messages
func Success(text string) string {
	return colored(text, greenColor)
}

// Warning returns yellow-colored text for warning messages
func Warning(text string) string {
	return colored(text, yellowColor)
}

// Error returns red-colored text for error messages
func Error(text string) string {
	return colored(text, redColor)
}

// Debug returns cyan-colored text for debug info
func Debug(text string) string {
	return colored(text, cyanColor)
}
