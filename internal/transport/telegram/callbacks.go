package telegram

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	callbackQuizIntro = "show_quiz_intro"
	callbackStartQuiz = "start_quiz"

	answerPrefix = "answer_"
	classPrefix  = "class_"
)

// answerCallbackData encodes the (slot, option) pair an option button carries.
func answerCallbackData(slot, option int) string {
	return fmt.Sprintf("%s%d_%d", answerPrefix, slot, option)
}

// parseAnswerData decodes "answer_<slot>_<option>" callback data.
func parseAnswerData(data string) (slot, option int, err error) {
	rest, ok := strings.CutPrefix(data, answerPrefix)
	if !ok {
		return 0, 0, fmt.Errorf("not an answer callback: %q", data)
	}
	parts := strings.Split(rest, "_")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed answer callback: %q", data)
	}
	slot, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed answer slot: %q", data)
	}
	option, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed answer option: %q", data)
	}
	return slot, option, nil
}

func classCallbackData(class string) string {
	return classPrefix + class
}

func parseClassData(data string) (string, bool) {
	return strings.CutPrefix(data, classPrefix)
}
