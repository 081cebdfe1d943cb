package commands

import (
	"github.com/AlecAivazis/survey/v2"
)

// Prompter asks the user for input on a terminal.
type Prompter interface {
	Input(message, def string) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(message, def string) (string, error) {
	var answer string
	prompt := &survey.Input{Message: message, Default: def}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}
	return answer, nil
}
