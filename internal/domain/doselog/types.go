package doselog

type DoseStatus string

const (
	StatusTaken   DoseStatus = "taken"
	StatusSkipped DoseStatus = "skipped"
	StatusVoided  DoseStatus = "voided"
)

type Source string

const (
	SourceManual   Source = "manual"
	SourceReminder Source = "reminder"
)
