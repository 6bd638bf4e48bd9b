package assetdiscovery

import (
	"github.com/everFinance/assetdiscovery/common"
)

var log = common.NewLog("assetdiscovery")
