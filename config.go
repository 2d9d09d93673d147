package main

import "time"

// Config is the server configuration, read from the environment. DBPath may
// be empty to run without the match archive.
type Config struct {
	Addr              string        `env:"ADDR,default=:8080"`
	StaticDir         string        `env:"STATIC_DIR,default=../"`
	DBPath            string        `env:"DB_PATH,default=data/matches.db"`
	ChatHistoryLimit  int           `env:"CHAT_HISTORY_LIMIT,default=10"`
	ChatHistoryMaxAge time.Duration `env:"CHAT_HISTORY_MAX_AGE,default=1h"`
}
