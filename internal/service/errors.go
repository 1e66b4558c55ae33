package service

import "errors"

// Классы ошибок, которые обработчики HTTP переводят в коды ответа
var (
	// ErrValidation - не заполнено обязательное поле или недопустимый статус
	ErrValidation = errors.New("validation error")
	// ErrNotFound - обращения с таким id нет
	ErrNotFound = errors.New("complaint not found")
	// ErrNotify - письмо не доставлено (статус при этом уже сохранен)
	ErrNotify = errors.New("notification failed")
	// ErrStore - сбой хранилища
	ErrStore = errors.New("store error")
)
