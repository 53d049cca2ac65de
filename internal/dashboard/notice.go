package dashboard

import "fmt"

// Level grades a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a short message for the user, shown as a toast.
type Notice struct {
	Title string
	Body  string
	Level Level
}

func (n Notice) String() string {
	if n.Body == "" {
		return n.Title
	}
	return fmt.Sprintf("%s: %s", n.Title, n.Body)
}

func info(title, body string) Notice    { return Notice{Title: title, Body: body, Level: LevelInfo} }
func success(title, body string) Notice { return Notice{Title: title, Body: body, Level: LevelSuccess} }
func warning(title, body string) Notice { return Notice{Title: title, Body: body, Level: LevelWarning} }

// ErrorNotice builds an error notice, used for failures reported outside
// the controller such as exports.
func ErrorNotice(title string, err error) Notice {
	return Notice{Title: title, Body: err.Error(), Level: LevelError}
}

// SuccessNotice builds a success notice.
func SuccessNotice(title, body string) Notice { return success(title, body) }
