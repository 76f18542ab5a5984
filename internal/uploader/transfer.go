package uploader

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Transfer performs the single PUT of the raw file bytes to the credential's
// write URL. Progress callbacks observe a monotonically non-decreasing
// percentage that reaches exactly 100 only on success. Cancelling the context
// aborts the in-flight request and yields ReasonAborted.
func (c *Client) Transfer(ctx context.Context, f File, cred *Credential, onProgress func(int)) error {
	handle, err := f.Open()
	if err != nil {
		// Local open failures are grouped with network-class errors: nothing
		// reached storage and a retry may succeed.
		return &TransferError{Reason: ReasonNetwork, Err: err}
	}
	defer handle.Close()

	tracker := &progressReader{r: handle, total: f.Size, report: onProgress}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, cred.UploadURL, tracker)
	if err != nil {
		return &TransferError{Reason: ReasonNetwork, Err: err}
	}
	req.Header.Set("Content-Type", f.ContentType)
	req.ContentLength = f.Size

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return &TransferError{Reason: ReasonAborted, Err: ctx.Err()}
		}
		return &TransferError{Reason: ReasonNetwork, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransferError{
			Reason:     ReasonStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("storage returned %s", resp.Status),
		}
	}

	tracker.complete()
	return nil
}

// progressReader reports percent-complete as the transport drains the body.
// It caps at 99 until complete() confirms success, so an aborted transfer can
// never have reported 100.
type progressReader struct {
	r      io.Reader
	total  int64
	sent   int64
	last   int
	report func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.report != nil && p.total > 0 {
		p.sent += int64(n)
		pct := int(p.sent * 100 / p.total)
		if pct > 99 {
			pct = 99
		}
		if pct > p.last {
			p.last = pct
			p.report(pct)
		}
	}
	return n, err
}

func (p *progressReader) complete() {
	if p.report != nil && p.last < 100 {
		p.last = 100
		p.report(100)
	}
}
