package serial

import (
	"io"

	bugst "go.bug.st/serial"
)

func openBugst(c *Config) (io.ReadWriteCloser, error) {
	mode := &bugst.Mode{
		BaudRate: c.Baud,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}
	p, err := bugst.Open(c.Name, mode)
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(c.ReadTimeout); err != nil {
		p.Close()
		return nil, err
	}
	// drop anything left over from a previous run
	if err := p.ResetInputBuffer(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}
