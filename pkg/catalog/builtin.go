package catalog

// Builtin returns the default catalog. Scores follow the suggestion
// ranking convention: 600 baseline, higher for methods worth floating to
// the top of the list.
func Builtin() *Catalog {
	c := New()

	c.Set("express", []MethodSpec{
		{Name: "get", Description: "Handle HTTP GET requests",
			Example: `app.get('/users', (req, res) => res.send('User List'));`, Score: 900},
		{Name: "post", Description: "Handle HTTP POST requests",
			Example: `app.post('/users', (req, res) => res.send('User Created'));`, Score: 600},
		{Name: "put", Description: "Handle HTTP PUT requests",
			Example: `app.put('/users/:id', (req, res) => res.send('User Updated'));`, Score: 600},
		{Name: "delete", Description: "Handle HTTP DELETE requests",
			Example: `app.delete('/users/:id', (req, res) => res.send('User Deleted'));`, Score: 600},
		{Name: "use", Description: "Mount middleware or sub-app",
			Example: `app.use(express.json());`, Score: 600},
		{Name: "listen", Description: "Start the server on a port",
			Example: `app.listen(3000, () => console.log('Server running on port 3000'));`, Score: 600},
		{Name: "set", Description: "Set application settings",
			Example: `app.set('view engine', 'ejs');`, Score: 600},
		{Name: "render", Description: "Render a view template",
			Example: `app.get('/', (req, res) => res.render('index'));`, Score: 600},
		{Name: "send", Description: "Send a response to the client",
			Example: `res.send('Hello, World!');`, Score: 600},
		{Name: "json", Description: "Send a JSON response",
			Example: `res.json({ message: 'Success' });`, Score: 600},
		{Name: "status", Description: "Set the response status code",
			Example: `res.status(404).send('Not Found');`, Score: 600},
		{Name: "redirect", Description: "Redirect to a different URL",
			Example: `res.redirect('/dashboard');`, Score: 600},
		{Name: "locals", Description: "Access local variables in templates",
			Example: `app.locals.title = 'My App';`, Score: 600},
		{Name: "params", Description: "Access route parameters",
			Example: `app.get('/users/:id', (req, res) => res.send(req.params.id));`, Score: 600},
		{Name: "query", Description: "Access query string parameters",
			Example: `app.get('/search', (req, res) => res.send(req.query.q));`, Score: 600},
		{Name: "body", Description: "Access request body data",
			Example: `app.post('/login', (req, res) => res.send(req.body.username));`, Score: 600},
		{Name: "headers", Description: "Access request headers",
			Example: `app.get('/', (req, res) => res.send(req.headers['user-agent']));`, Score: 600},
		{Name: "route", Description: "Define route-specific middleware",
			Example: `app.route('/users').get((req, res) => res.send('Users List'));`, Score: 600},
		{Name: "all", Description: "Handle all HTTP methods",
			Example: `app.all('/secret', (req, res) => res.send('Secret Page'));`, Score: 600},
		{Name: "static", Description: "Serve static files",
			Example: `app.use(express.static('public'));`, Score: 600},
	})

	c.Set("axios", []MethodSpec{
		{Name: "get", Description: "Make a GET request",
			Example: `axios.get('/api/users').then(res => console.log(res.data));`, Score: 600},
		{Name: "post", Description: "Make a POST request",
			Example: `axios.post('/api/users', { name: 'John' }).then(res => console.log(res.data));`, Score: 600},
		{Name: "put", Description: "Make a PUT request",
			Example: `axios.put('/api/users/1', { name: 'Jane' }).then(res => console.log(res.data));`, Score: 600},
		{Name: "delete", Description: "Make a DELETE request",
			Example: `axios.delete('/api/users/1').then(res => console.log(res.data));`, Score: 600},
	})

	c.Set("lodash", []MethodSpec{
		{Name: "cloneDeep", Description: "Deep clone an object",
			Example: `const obj = { a: 1 }; const newObj = _.cloneDeep(obj);`, Score: 600},
		{Name: "get", Description: "Get a value from an object by path",
			Example: `const obj = { user: { name: 'John' } }; console.log(_.get(obj, 'user.name'));`, Score: 600},
	})

	c.Set("moment", []MethodSpec{
		{Name: "format", Description: "Format a date string",
			Example: `console.log(moment().format('YYYY-MM-DD'));`, Score: 600},
		{Name: "add", Description: "Add time to a date",
			Example: `console.log(moment().add(1, 'day').format());`, Score: 600},
	})

	c.Set("chalk", []MethodSpec{
		{Name: "red", Description: "Color text red",
			Example: `console.log(chalk.red('Error message'));`, Score: 600},
		{Name: "bold", Description: "Make text bold",
			Example: `console.log(chalk.bold('Bold text'));`, Score: 600},
	})

	c.Set("dotenv", []MethodSpec{
		{Name: "config", Description: "Load environment variables from .env",
			Example: `require('dotenv').config(); console.log(process.env.API_KEY);`, Score: 600},
	})

	c.Set("mongoose", []MethodSpec{
		{Name: "connect", Description: "Connect to MongoDB",
			Example: `mongoose.connect('mongodb://localhost:27017/mydb', { useNewUrlParser: true });`, Score: 600},
		{Name: "model", Description: "Create a model from a schema",
			Example: `const User = mongoose.model('User', new mongoose.Schema({ name: String }));`, Score: 600},
	})

	return c
}
