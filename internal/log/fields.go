package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldUser          = "user"
	FieldBoardID       = "board_id"
	FieldBoardName     = "board_name"
	FieldCategoryID    = "category_id"
	FieldTransactionID = "transaction_id"
	FieldBillID        = "bill_id"
	FieldAmountCents   = "amount_cents"
	FieldTitle         = "title"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStore     = "store"
	ComponentBills     = "bills"
	ComponentBridge    = "bridge"
	ComponentBackend   = "backend"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentExport    = "export"
	ComponentReminder  = "reminder"
	ComponentRateLimit = "rate_limit"
	ComponentSecurity  = "security"
	ComponentTrace     = "trace"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpToggle   = "toggle"
	OpSettle   = "settle"
	OpExport   = "export"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
