package assetdiscovery

import (
	cfgschema "github.com/everFinance/assetdiscovery/config/schema"
	"github.com/everFinance/assetdiscovery/schema"
)

func (n *Node) runJobs() {
	interval := n.cfg.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	n.scheduler.Every(interval).Seconds().SingletonMode().Do(n.produceBlock)
	n.scheduler.Every(interval).Seconds().SingletonMode().Do(n.monitorPeers)
	n.scheduler.Every(30).Seconds().SingletonMode().Do(n.updatePendingMetric)

	n.scheduler.StartAsync()
}

func (n *Node) produceBlock() {
	epoch, err := n.ledger.ProduceBlock(n.gate)
	if err != nil {
		log.Error("n.ledger.ProduceBlock(n.gate)", "err", err)
		return
	}
	n.reconcile(epoch, n.config.Param())
}

// reconcile runs the sweep, expiry and verification for one epoch in that order.
// Their commands land in the next block.
func (n *Node) reconcile(epoch uint64, param cfgschema.Param) {
	param = param.Normalize()
	if epoch%uint64(param.SweepEvery) == 0 {
		n.sweep.Run(param.SweepBatchSize)
	}

	if epoch%uint64(param.ExpireEvery) == 0 {
		if _, err := n.gate.SubmitUnsigned(schema.NewRemoveExpiredRequests(epoch)); err != nil {
			log.Error("submit remove_expired_requests failed", "err", err, "epoch", epoch)
		}
	}

	n.oracle.Run(epoch, param.VerifyBatchSize)
}

func (n *Node) monitorPeers() {
	n.peers.Run()
}

func (n *Node) updatePendingMetric() {
	reqs, err := n.ledger.PendingRequests()
	if err != nil {
		log.Error("n.ledger.PendingRequests()", "err", err)
		return
	}
	metricPending(len(reqs))
}
