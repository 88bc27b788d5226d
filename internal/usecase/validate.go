package usecase

import (
	"strconv"
	"strings"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

// Проверки входных данных общие для обеих реализаций и выполняются
// до любого обращения к хранилищу.

func parseUsername(raw string) (string, error) {
	username := domain.NormalizeUsername(raw)
	if username == "" {
		return "", domain.NewValidationError(domain.MsgUsernameRequired)
	}
	return username, nil
}

func parseUserID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", domain.NewValidationError(domain.MsgUserIDRequired)
	}
	return id, nil
}

func parseDuration(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.NewValidationError(domain.MsgDurationRequired)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, domain.NewValidationError(domain.MsgDurationInvalid)
	}
	return n, nil
}

func parseOptionalDate(raw, message string) (*domain.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, domain.NewValidationError(message)
	}
	return &d, nil
}

// parseAddExercise проверяет форму упражнения; без даты берется today
func parseAddExercise(req AddExerciseRequest, today domain.Date) (string, domain.Exercise, error) {
	userID, err := parseUserID(req.UserID)
	if err != nil {
		return "", domain.Exercise{}, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return "", domain.Exercise{}, domain.NewValidationError(domain.MsgDescriptionRequired)
	}

	duration, err := parseDuration(req.Duration)
	if err != nil {
		return "", domain.Exercise{}, err
	}

	date, err := parseOptionalDate(req.Date, domain.MsgDateInvalid)
	if err != nil {
		return "", domain.Exercise{}, err
	}
	if date == nil {
		date = &today
	}

	return userID, domain.Exercise{
		Description: description,
		Duration:    duration,
		Date:        *date,
	}, nil
}

// parseLogRequest проверяет параметры журнала. Некорректный или
// неположительный лимит игнорируется, некорректные даты отклоняются.
func parseLogRequest(req LogRequest) (string, domain.LogFilter, error) {
	userID, err := parseUserID(req.UserID)
	if err != nil {
		return "", domain.LogFilter{}, err
	}

	from, err := parseOptionalDate(req.From, domain.MsgFromInvalid)
	if err != nil {
		return "", domain.LogFilter{}, err
	}
	to, err := parseOptionalDate(req.To, domain.MsgToInvalid)
	if err != nil {
		return "", domain.LogFilter{}, err
	}

	filter := domain.LogFilter{From: from, To: to}
	if n, err := strconv.Atoi(strings.TrimSpace(req.Limit)); err == nil && n > 0 {
		filter.Limit = n
	}
	return userID, filter, nil
}
