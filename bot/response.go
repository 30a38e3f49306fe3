package bot

import (
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/utils/httputil"
	"github.com/diamondburned/arikawa/v3/utils/httputil/httpdriver"

	"github.com/easysystem/assistant/common/log"
	"github.com/easysystem/assistant/db/stats"
)

// hookResponses adds fn to the client's response hooks.
// api.Client has an OnResponse method that shadows the embedded field, so the field is set on the inner client.
func hookResponses(c *api.Client, fn httputil.ResponseFunc) {
	c.Client.OnResponse = append(c.Client.OnResponse, fn)
}

// onResponse logs a request's status code and adds it to metrics
func (bot *Bot) onResponse(req httpdriver.Request, resp httpdriver.Response) error {
	method := ""

	v, ok := req.(*httpdriver.DefaultRequest)
	if ok {
		method = v.Method
		if method == "" {
			method = "GET"
		}
	}

	if resp == nil {
		return nil
	}

	if _, ok := resp.(*httpdriver.DefaultResponse); !ok {
		return nil
	}

	log.Debugf("%v %v => %v", method, stats.NormalizePath(req.GetPath()), resp.GetStatus())

	bot.Stats.IncRequest(req.GetPath())
	return nil
}
