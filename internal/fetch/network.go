package fetch

import (
	"context"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// watchDocumentStatus subscribes to CDP network events on the tab and
// records the HTTP status of the main document response. The returned
// pointer is only valid to read after navigation has completed.
func watchDocumentStatus(tabCtx context.Context, logger *zap.Logger) *int64 {
	status := new(int64)

	if err := chromedp.Run(tabCtx, network.Enable()); err != nil {
		logger.Debug("could not enable network domain", zap.Error(err))
		return status
	}

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			*status = e.Response.Status
		}
	})

	return status
}
