// app/seenmw.go
package app

import (
	"Gin_postgres_redis_equipment_reserve/db"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func TouchLastSeen(repo *db.Repo, rdb *redis.Client, throttle time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("accountID")
		if !ok {
			c.Next()
			return
		}
		aid, _ := v.(uint)
		if aid == 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("account:lastseen:%d", aid)
		if ok, _ := rdb.SetNX(c, key, "1", throttle).Result(); ok {
			_ = repo.TouchAccountSeen(c, aid) // 忽略错误，不阻塞请求
		}
		c.Next()
	}
}
