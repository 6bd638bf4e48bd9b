package assetdiscovery

import (
	"context"
	"net/http"
	"time"

	"github.com/everFinance/assetdiscovery/cache"
	"github.com/everFinance/assetdiscovery/common"
	"github.com/everFinance/assetdiscovery/config"
	"github.com/everFinance/assetdiscovery/rawdb"
	"github.com/everFinance/assetdiscovery/schema"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
)

const (
	DefaultTickInterval = 6  // seconds
	DefaultChainSpecTTL = 30 // seconds
)

type Node struct {
	cfg schema.Config

	ledgerDb *rawdb.BoltDB
	ledger   *Ledger
	gate     *Gate
	store    *Store

	resolver *Resolver
	oracle   *Oracle
	sweep    *Sweep
	peers    *PeerMonitor

	config    *config.Config
	wdb       *Wdb
	kWriter   *KWriter
	specCache *cache.Cache

	engine    *gin.Engine
	scheduler *gocron.Scheduler
	metricSrv *http.Server
}

func New(cfg schema.Config) *Node {
	if err := common.InitSentry(cfg.SentryDsn); err != nil {
		panic(err)
	}
	if cfg.LogLevel != "" {
		if err := common.SetLogLevel(cfg.LogLevel); err != nil {
			panic(err)
		}
	}

	authority := schema.AccountID{}
	authorities := make([]schema.AccountID, 0, len(cfg.Authorities)+1)
	if cfg.AuthorityKey != "" {
		acc, err := schema.AccountFromHex(cfg.AuthorityKey)
		if err != nil {
			panic(err)
		}
		authority = acc
		authorities = append(authorities, acc)
	}
	for _, a := range cfg.Authorities {
		acc, err := schema.AccountFromHex(a)
		if err != nil {
			panic(err)
		}
		authorities = append(authorities, acc)
	}

	ledgerDb, err := openLedgerDb(cfg.BoltDir)
	if err != nil {
		panic(err)
	}
	store, err := newLocalStore(cfg)
	if err != nil {
		panic(err)
	}

	var (
		wdb     *Wdb
		confWdb *config.Wdb
	)
	if cfg.UseSqlite {
		wdb = NewSqliteDb(cfg.SqliteDir)
		confWdb = config.NewSqliteDb(cfg.SqliteDir)
	} else {
		wdb = NewMysqlDb(cfg.Mysql)
		confWdb = config.NewMysqlDb(cfg.Mysql)
	}
	if err = wdb.Migrate(); err != nil {
		panic(err)
	}

	sinks := MultiSink{LogSink{}, wdb}
	var kWriter *KWriter
	if cfg.Kafka.Start {
		kWriter, err = NewKWriter(schema.EventTopic, cfg.Kafka.Uri, authority.String())
		if err != nil {
			panic(err)
		}
		sinks = append(sinks, kWriter)
	}

	ttl := cfg.ChainSpecTTL
	if ttl <= 0 {
		ttl = DefaultChainSpecTTL
	}
	specCache, err := cache.NewLocalCache(time.Duration(ttl) * time.Second)
	if err != nil {
		panic(err)
	}

	ledger := NewLedger(ledgerDb, sinks, authorities...)
	gate := NewGate()
	resolver := NewResolver(ledger, specCache, DefaultHttpTimeout)

	return &Node{
		cfg:       cfg,
		ledgerDb:  ledgerDb,
		ledger:    ledger,
		gate:      gate,
		store:     store,
		resolver:  resolver,
		oracle:    NewOracle(ledger, resolver, gate),
		sweep:     NewSweep(ledger, store, resolver, gate),
		peers:     NewPeerMonitor(store, ledger, gate, authority, cfg.LocalRpc, DefaultHttpTimeout),
		config:    config.New(confWdb),
		wdb:       wdb,
		kWriter:   kWriter,
		specCache: specCache,
		engine:    gin.Default(),
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

func newLocalStore(cfg schema.Config) (*Store, error) {
	switch {
	case cfg.MongoDBKV.UseMongoDB:
		return NewMongoStore(context.Background(), cfg.MongoDBKV.Uri)
	case cfg.S3KV.UseS3:
		return NewS3Store(cfg.S3KV.AccKey, cfg.S3KV.SecretKey, cfg.S3KV.Region, cfg.S3KV.Prefix, cfg.S3KV.Endpoint)
	case cfg.AliyunKV.UseAliyun:
		return NewAliyunStore(cfg.AliyunKV.Endpoint, cfg.AliyunKV.AccKey, cfg.AliyunKV.SecretKey, cfg.AliyunKV.Prefix)
	}
	return NewBoltStore(cfg.BoltDir)
}

func (n *Node) Run() {
	n.config.Run()
	if n.cfg.MetricPort != "" {
		n.metricSrv = common.NewMetricServer(n.cfg.MetricPort, n.cfg.DebugChart)
	}
	go n.runAPI(n.cfg.Port)
	go n.runJobs()
}

func (n *Node) Close() {
	n.scheduler.Stop()
	if n.metricSrv != nil {
		n.metricSrv.Close()
	}
	n.config.Close()
	if n.kWriter != nil {
		n.kWriter.Close()
	}
	n.wdb.Close()
	n.specCache.Cache.Close()
	if err := n.store.Close(); err != nil {
		log.Error("n.store.Close()", "err", err)
	}
	if err := n.ledgerDb.Close(); err != nil {
		log.Error("n.ledgerDb.Close()", "err", err)
	}
	common.FlushSentry()
}
