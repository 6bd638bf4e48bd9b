package schema

type ReqRegisterTLD struct {
	Signer    AccountID `json:"signer"`
	TLD       string    `json:"tld"`
	ChainSpec string    `json:"chainSpec"`
}

type ReqRegisterDomain struct {
	Signer     AccountID `json:"signer"`
	Domain     string    `json:"domain"`
	ChainSpec  string    `json:"chainSpec"`
	Maintainer string    `json:"maintainer"`
}

type ReqRevokeDomain struct {
	Signer AccountID `json:"signer"`
}

type ReqRequestAsset struct {
	Signer  AccountID `json:"signer"`
	Domain  string    `json:"domain"`
	AssetId string    `json:"assetId"`
}

type RespAccepted struct {
	Kind  CommandKind `json:"kind"`
	Epoch uint64      `json:"epoch"` // block the command was queued in
}

type RespEpoch struct {
	Epoch   uint64 `json:"epoch"`
	Pending int    `json:"pending"` // commands waiting for the next block
}

type RespErr struct {
	Err string `json:"error"`
}

// json-rpc 2.0 envelopes

type RpcRequest struct {
	Id      uint32        `json:"id"`
	JsonRpc string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type RpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type RpcResponse struct {
	JsonRpc string      `json:"jsonrpc"`
	Result  interface{} `json:"result"`
	Error   *RpcError   `json:"error,omitempty"`
	Id      uint32      `json:"id"`
}
