package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldMonth       = "month"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldRowCount    = "row_count"
	FieldAlertCount  = "alert_count"
	FieldRule        = "rule"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentState   = "state"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentExport  = "export"
)

// Operations defines standard operation names
const (
	OpRecord   = "record"
	OpImport   = "import"
	OpExport   = "export"
	OpReport   = "report"
	OpReplace  = "replace"
	OpEvaluate = "evaluate"
	OpSync     = "sync"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
