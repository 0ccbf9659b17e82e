package redis_client

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/travigo/stopwatch/pkg/util"
)

var Client *redis.Client

const defaultConnectionAddress = "localhost:6379"
const defaultDatabase = 0

// Configured reports if a Redis address has been set in the environment
func Configured() bool {
	return util.GetEnvironmentVariables()["STOPWATCH_REDIS_ADDRESS"] != ""
}

func Connect() error {
	address := util.GetEnvironmentVariable("STOPWATCH_REDIS_ADDRESS", defaultConnectionAddress)
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["STOPWATCH_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["STOPWATCH_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: env["STOPWATCH_REDIS_PASSWORD"],
		DB:       database,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return err
	}

	Client = client

	return nil
}
