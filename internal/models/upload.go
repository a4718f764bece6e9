package models

// UploadSuccessMessage: текст ответа на успешный POST.
const UploadSuccessMessage = "Files uploaded with success!"

// UploadResult: тело ответа после загрузки всех частей.
type UploadResult struct {
	Result string `json:"result"`
}

// ProgressEvent уходит в канал сессии не чаще одного раза за окно троттлинга.
type ProgressEvent struct {
	ProcessedAlready int64  `json:"processedAlready"`
	Filename         string `json:"filename"`
}
