package apihandlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck-backend/pkg/ai"
	accountDB "github.com/taskdeck/taskdeck-backend/pkg/db/account"
	taskDB "github.com/taskdeck/taskdeck-backend/pkg/db/task"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	tokenSignKey              string
	tokenExpiresIn            time.Duration
	accountDBConn             *accountDB.AccountDBService
	taskDBConn                *taskDB.TaskDBService
	aiClient                  *ai.Client
	maxNewAccountsPer5Minutes int
}

func NewHTTPHandler(
	tokenSignKey string,
	tokenExpiresIn time.Duration,
	accountDBConn *accountDB.AccountDBService,
	taskDBConn *taskDB.TaskDBService,
	aiClient *ai.Client,
	maxNewAccountsPer5Minutes int,
) *HttpEndpoints {
	return &HttpEndpoints{
		tokenSignKey:              tokenSignKey,
		tokenExpiresIn:            tokenExpiresIn,
		accountDBConn:             accountDBConn,
		taskDBConn:                taskDBConn,
		aiClient:                  aiClient,
		maxNewAccountsPer5Minutes: maxNewAccountsPer5Minutes,
	}
}
