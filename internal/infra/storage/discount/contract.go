package discount

import (
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

// DBExecutor определяет интерфейс для выполнения запросов к БД
type DBExecutor = dbmetrics.DBExecutor
