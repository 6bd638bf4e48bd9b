package config

func (c *Config) runJobs() {
	c.scheduler.Every(10).Seconds().SingletonMode().Do(c.updateParam)

	c.scheduler.StartAsync()
}

func (c *Config) updateParam() {
	param, err := c.wdb.GetParam()
	if err != nil {
		log.Error("c.wdb.GetParam()", "err", err)
		return
	}
	c.lock.Lock()
	c.param = param
	c.lock.Unlock()
}
