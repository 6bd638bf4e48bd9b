package schema

type Config struct {
	Port       string `yaml:"port"`
	MetricPort string `yaml:"metricPort"`
	DebugChart bool   `yaml:"debugChart"`
	LogLevel   string `yaml:"logLevel"`
	SentryDsn  string `yaml:"sentryDsn"`

	BoltDir   string `yaml:"boltDir"`
	Mysql     string `yaml:"mysql"`
	UseSqlite bool   `yaml:"useSqlite"`
	SqliteDir string `yaml:"sqliteDir"`

	// seconds between two blocks
	TickInterval int `yaml:"tickInterval"`
	// seconds a fetched chain spec document is reused
	ChainSpecTTL int `yaml:"chainSpecTTL"`
	// local node rpc queried for live peers
	LocalRpc string `yaml:"localRpc"`
	// hex account the node signs maintainer revocations with
	AuthorityKey string   `yaml:"authorityKey"`
	Authorities  []string `yaml:"authorities"`

	// descriptor served on /chainspec
	ChainId   string   `yaml:"chainId"`
	BootNodes []string `yaml:"bootNodes"`

	S3KV      S3KV      `yaml:"s3KV"`
	AliyunKV  AliyunKV  `yaml:"aliyunKV"`
	MongoDBKV MongoDBKV `yaml:"mongoDBKV"`

	Kafka Kafka `yaml:"kafka"`
}

type S3KV struct {
	UseS3     bool   `yaml:"useS3"`
	AccKey    string `yaml:"accKey"`
	SecretKey string `yaml:"secretKey"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
}

type AliyunKV struct {
	UseAliyun bool   `yaml:"useAliyun"`
	Endpoint  string `yaml:"endpoint"`
	AccKey    string `yaml:"accKey"`
	SecretKey string `yaml:"secretKey"`
	Prefix    string `yaml:"prefix"`
}

type MongoDBKV struct {
	UseMongoDB bool   `yaml:"useMongoDB"`
	Uri        string `yaml:"uri"`
}

type Kafka struct {
	Start bool   `yaml:"start"`
	Uri   string `yaml:"uri"`
}
