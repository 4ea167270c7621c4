package gapfill

type Options struct {
	dryRun bool
	input  string
	output string
	report string
}

//DryRunOption is an option to print the interpolated table as CSV to stdout instead of writing the output file.
func DryRunOption(dryRun bool) func(*Options) {
	return func(opt *Options) {
		opt.dryRun = dryRun
	}
}

//InputOption overrides the configured input path.
//Unless OutputOption is also given, the output path is derived from it.
func InputOption(path string) func(*Options) {
	return func(opt *Options) {
		opt.input = path
	}
}

//OutputOption overrides the configured output path.
func OutputOption(path string) func(*Options) {
	return func(opt *Options) {
		opt.output = path
	}
}

//ReportOption writes the run report as JSON to path.
func ReportOption(path string) func(*Options) {
	return func(opt *Options) {
		opt.report = path
	}
}
