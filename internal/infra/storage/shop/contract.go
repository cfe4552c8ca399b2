package shop

import "github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"

// DBExecutor интерфейс выполнения запросов (БД или транзакция)
type DBExecutor = dbmetrics.DBExecutor
