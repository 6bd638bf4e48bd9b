package config

import (
	"sync"
	"time"

	"github.com/everFinance/assetdiscovery/config/schema"
	"github.com/go-co-op/gocron"
)

type Config struct {
	wdb       *Wdb
	scheduler *gocron.Scheduler

	lock  sync.RWMutex
	param schema.Param
}

func New(wdb *Wdb) *Config {
	if err := wdb.Migrate(); err != nil {
		panic(err)
	}
	param, err := wdb.GetParam()
	if err != nil {
		panic(err)
	}
	return &Config{
		wdb:       wdb,
		scheduler: gocron.NewScheduler(time.UTC),
		param:     param,
	}
}

func (c *Config) Param() schema.Param {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.param
}

// SetParam persists a new cadence and applies it immediately.
func (c *Config) SetParam(p schema.Param) error {
	p = p.Normalize()
	if err := c.wdb.SaveParam(p); err != nil {
		return err
	}
	c.lock.Lock()
	c.param = p
	c.lock.Unlock()
	return nil
}

func (c *Config) Run() {
	go c.runJobs()
}

func (c *Config) Close() {
	c.scheduler.Stop()
	c.wdb.Close()
}
