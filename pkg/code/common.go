package code

import "net/http"

var (
	Success       = NewSuss(1, lang{en: "Success", ru: "Успешно"})
	SuccessCreate = NewSuss(2, lang{en: "Created", ru: "Создано"})
	SuccessUpdate = NewSuss(3, lang{en: "Updated", ru: "Обновлено"})
	SuccessDelete = NewSuss(4, lang{en: "Deleted", ru: "Удалено"})
)

var (
	ErrorServerInternal   = NewError(500, http.StatusInternalServerError, lang{en: "Internal server error", ru: "Внутренняя ошибка сервера"})
	ErrorNotFoundAPI      = NewError(501, http.StatusNotFound, lang{en: "Not found", ru: "Не найдено"})
	ErrorInvalidParams    = NewError(502, http.StatusBadRequest, lang{en: "Invalid params", ru: "Неверные параметры"})
	ErrorTooManyRequests  = NewError(503, http.StatusTooManyRequests, lang{en: "Too many requests", ru: "Слишком много запросов"})
	ErrorDBQuery          = NewError(504, http.StatusInternalServerError, lang{en: "Database query failed", ru: "Ошибка запроса к базе данных"})
	ErrorRequestTimeout   = NewError(505, http.StatusServiceUnavailable, lang{en: "Request timed out", ru: "Превышено время ожидания запроса"})
	ErrorWriteQueueClosed = NewError(506, http.StatusServiceUnavailable, lang{en: "Service is shutting down", ru: "Сервис останавливается"})
)

var (
	ErrorNotUserAuthToken        = NewError(1001, http.StatusUnauthorized, lang{en: "Authorization required", ru: "Требуется авторизация"})
	ErrorInvalidUserAuthToken    = NewError(1002, http.StatusUnauthorized, lang{en: "Invalid or expired token", ru: "Недействительный или просроченный токен"})
	ErrorTokenGenerate           = NewError(1003, http.StatusInternalServerError, lang{en: "Failed to generate token", ru: "Не удалось создать токен"})
	ErrorUserRegisterIsDisable   = NewError(1004, http.StatusForbidden, lang{en: "Registration is disabled", ru: "Регистрация отключена"})
	ErrorUserUsernameNotValid    = NewError(1005, http.StatusBadRequest, lang{en: "Username may contain letters, digits and @.+-_ only, 3 to 150 characters", ru: "Имя пользователя может содержать только буквы, цифры и @.+-_, от 3 до 150 символов"})
	ErrorUserPasswordNotMatch    = NewError(1006, http.StatusBadRequest, lang{en: "Passwords do not match", ru: "Пароли не совпадают"})
	ErrorUserAlreadyExists       = NewError(1007, http.StatusConflict, lang{en: "A user with that username already exists", ru: "Пользователь с таким именем уже существует"})
	ErrorUserLoginPasswordFailed = NewError(1008, http.StatusUnauthorized, lang{en: "Incorrect username or password", ru: "Неверное имя пользователя или пароль"})
	ErrorUserNotFound            = NewError(1009, http.StatusNotFound, lang{en: "User not found", ru: "Пользователь не найден"})
)

var (
	ErrorNoteNotFound     = NewError(2001, http.StatusNotFound, lang{en: "Note not found", ru: "Заметка не найдена"})
	ErrorNoteSlugExists   = NewError(2002, http.StatusBadRequest, lang{en: "Slug already exists, choose a unique value", ru: "Такой slug уже существует, придумайте уникальное значение!"})
	ErrorNoteSlugEmpty    = NewError(2003, http.StatusBadRequest, lang{en: "Cannot derive a slug from the title, set it explicitly", ru: "Не удалось получить slug из заголовка, укажите его вручную"})
	ErrorNoteCreateFailed = NewError(2004, http.StatusInternalServerError, lang{en: "Failed to create note", ru: "Не удалось создать заметку"})
	ErrorNoteUpdateFailed = NewError(2005, http.StatusInternalServerError, lang{en: "Failed to update note", ru: "Не удалось обновить заметку"})
	ErrorNoteDeleteFailed = NewError(2006, http.StatusInternalServerError, lang{en: "Failed to delete note", ru: "Не удалось удалить заметку"})
)

// SlugExistsWarning is appended to the duplicate slug in form errors.
const SlugExistsWarning = " - такой slug уже существует, придумайте уникальное значение!"
