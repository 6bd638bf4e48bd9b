package assetdiscovery

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/everFinance/assetdiscovery/common"
	"github.com/everFinance/assetdiscovery/schema"
	"github.com/gin-gonic/gin"
)

const (
	apiRateLimit  = 100
	apiRatePeriod = "S"

	rpcMethodNotFound = -32601
	rpcInvalidParams  = -32602
	rpcInternalError  = -32603
)

func (n *Node) runAPI(port string) {
	r := n.engine
	n.registerRoutes(r)
	if err := r.Run(port); err != nil {
		panic(err)
	}
}

func (n *Node) registerRoutes(r *gin.Engine) {
	r.Use(common.CORSMiddleware())
	r.Use(common.LimiterMiddleware(apiRateLimit, apiRatePeriod, nil))
	v1 := r.Group("/")
	{
		// signed commands, applied in the next block
		v1.POST("/tld", n.postTLD)
		v1.POST("/domain", n.postDomain)
		v1.PUT("/domain/:name", n.putDomain)
		v1.DELETE("/domain/:name", n.deleteDomain)
		v1.POST("/asset", n.postAsset)

		v1.GET("/domain/:name", n.getDomain)
		v1.GET("/domain/:name/assets", n.getDomainAssets)
		v1.GET("/tld/:tld", n.getTLD)
		v1.GET("/maintainer/:id", n.getMaintainer)
		v1.GET("/asset/:id/providers", n.getAssetProviders)
		v1.GET("/pending", n.getPending)
		v1.GET("/peers", n.getPeers)
		v1.GET("/epoch", n.getEpoch)
		v1.GET("/events", n.getEvents)

		v1.GET("/chainspec", n.getChainSpec)
		v1.POST("/rpc", n.postRpc)
		// boot node multiaddrs resolve to the server root
		v1.POST("/", n.postRpc)
	}
}

func (n *Node) submit(c *gin.Context, cmd schema.Command) {
	if err := n.gate.SubmitSigned(cmd); err != nil {
		errorResponse(c, err.Error())
		return
	}
	epoch, err := n.ledger.Epoch()
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusAccepted, schema.RespAccepted{Kind: cmd.Kind, Epoch: epoch + 1})
}

func (n *Node) postTLD(c *gin.Context) {
	req := schema.ReqRegisterTLD{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	n.submit(c, schema.NewRegisterTLD(req.Signer, req.TLD, req.ChainSpec))
}

func (n *Node) postDomain(c *gin.Context) {
	req := schema.ReqRegisterDomain{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	n.submit(c, schema.NewRegisterDomain(req.Signer, req.Domain, req.ChainSpec, req.Maintainer))
}

func (n *Node) putDomain(c *gin.Context) {
	req := schema.ReqRegisterDomain{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	n.submit(c, schema.NewAmendDomain(req.Signer, c.Param("name"), req.ChainSpec, req.Maintainer))
}

func (n *Node) deleteDomain(c *gin.Context) {
	req := schema.ReqRevokeDomain{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	n.submit(c, schema.NewRevokeDomain(req.Signer, c.Param("name")))
}

func (n *Node) postAsset(c *gin.Context) {
	req := schema.ReqRequestAsset{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	n.submit(c, schema.NewRequestAsset(req.Signer, req.Domain, req.AssetId))
}

func (n *Node) getDomain(c *gin.Context) {
	info, err := n.ledger.GetDomain(c.Param("name"))
	if errors.Is(err, schema.ErrDomainNotFound) {
		notFoundResponse(c, err.Error())
		return
	}
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, info)
}

func (n *Node) getDomainAssets(c *gin.Context) {
	assets, err := n.ledger.AssetsOf(c.Param("name"))
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, schema.AssetList{Assets: assets})
}

func (n *Node) getTLD(c *gin.Context) {
	info, err := n.ledger.GetTLD(c.Param("tld"))
	if errors.Is(err, schema.ErrNotExist) {
		notFoundResponse(c, err.Error())
		return
	}
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, info)
}

func (n *Node) getMaintainer(c *gin.Context) {
	domain, err := n.ledger.MaintainerDomain(c.Param("id"))
	if errors.Is(err, schema.ErrNotExist) {
		notFoundResponse(c, err.Error())
		return
	}
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"domain": domain})
}

func (n *Node) getAssetProviders(c *gin.Context) {
	providers, err := n.ledger.ProvidersOf(c.Param("id"))
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, schema.ProviderList{Providers: providers})
}

func (n *Node) getPending(c *gin.Context) {
	reqs, err := n.ledger.PendingRequests()
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (n *Node) getPeers(c *gin.Context) {
	c.JSON(http.StatusOK, schema.PeerCache{Peers: n.peers.Peers()})
}

func (n *Node) getEpoch(c *gin.Context) {
	epoch, err := n.ledger.Epoch()
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, schema.RespEpoch{Epoch: epoch, Pending: n.gate.Pending()})
}

func (n *Node) getEvents(c *gin.Context) {
	if n.wdb == nil {
		notFoundResponse(c, "event history disabled")
		return
	}
	cursor, err := strconv.ParseUint(c.DefaultQuery("cursor", "0"), 10, 64)
	if err != nil {
		errorResponse(c, "invalid cursor")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultEventPageSize)))
	if err != nil {
		errorResponse(c, "invalid limit")
		return
	}
	records, err := n.wdb.ListEvents(c.Query("kind"), c.Query("domain"), uint(cursor), limit)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, records)
}

func (n *Node) getChainSpec(c *gin.Context) {
	bz, err := ChainSpecDocument(n.cfg.ChainId, n.cfg.BootNodes)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", bz)
}

// postRpc answers state_getStorage for DomainMap keys so other nodes can
// resolve domains registered here.
func (n *Node) postRpc(c *gin.Context) {
	req := schema.RpcRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	resp := schema.RpcResponse{JsonRpc: JsonRpcVersion, Id: req.Id}

	switch req.Method {
	case RpcStateGetStorage:
		result, rpcErr := n.stateGetStorage(req.Params)
		resp.Result = result
		resp.Error = rpcErr
	default:
		resp.Error = &schema.RpcError{Code: rpcMethodNotFound, Message: "Method not found"}
	}
	c.JSON(http.StatusOK, resp)
}

// stateGetStorage returns the hex record, or nil when the key holds nothing.
func (n *Node) stateGetStorage(params []interface{}) (interface{}, *schema.RpcError) {
	if len(params) == 0 {
		return nil, &schema.RpcError{Code: rpcInvalidParams, Message: "missing storage key"}
	}
	keyHex, ok := params[0].(string)
	if !ok {
		return nil, &schema.RpcError{Code: rpcInvalidParams, Message: "storage key must be a hex string"}
	}
	// bare hex keys are accepted as well
	if !strings.HasPrefix(keyHex, "0x") && !strings.HasPrefix(keyHex, "0X") {
		keyHex = "0x" + keyHex
	}
	key, err := hexutil.Decode(keyHex)
	if err != nil {
		return nil, &schema.RpcError{Code: rpcInvalidParams, Message: err.Error()}
	}
	domain, err := DomainFromStorageKey(key)
	if err != nil {
		return nil, nil
	}
	info, err := n.ledger.GetDomain(domain)
	if errors.Is(err, schema.ErrDomainNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &schema.RpcError{Code: rpcInternalError, Message: err.Error()}
	}
	bz, err := EncodeDomainInfo(*info)
	if err != nil {
		return nil, &schema.RpcError{Code: rpcInternalError, Message: err.Error()}
	}
	return hexutil.Encode(bz), nil
}

func errorResponse(c *gin.Context, err string) {
	// client error
	c.JSON(http.StatusBadRequest, schema.RespErr{
		Err: err,
	})
}

func notFoundResponse(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, schema.RespErr{
		Err: err,
	})
}

func internalErrorResponse(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, schema.RespErr{
		Err: err,
	})
}
