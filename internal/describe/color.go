package describe

const (
	ansiBlue      = "\033[94m"
	ansiYellow    = "\033[93m"
	ansiUnderline = "\033[4m"
	ansiReset     = "\033[0m"
)

type style struct {
	color bool
}

func (s style) header(text string) string {
	if !s.color {
		return text
	}
	return ansiBlue + ansiUnderline + text + ansiReset
}

func (s style) warning(text string) string {
	if !s.color {
		return text
	}
	return ansiYellow + text + ansiReset
}
